package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "string", in: `"abc-1"`, want: "abc-1"},
		{name: "integer", in: `42`, want: "42"},
		{name: "float", in: `4.5`, want: "4.5"},
		{name: "null", in: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			require.Equal(t, tt.want, id)
		})
	}

	var id ID
	require.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestImageSet_ArrayAndObject(t *testing.T) {
	var fromArray ImageSet
	require.NoError(t, json.Unmarshal([]byte(`[{"url":"a.jpg"},{"url":"b.jpg"}]`), &fromArray))
	require.Equal(t, "b.jpg", fromArray["1"].URL)

	var fromObject ImageSet
	require.NoError(t, json.Unmarshal([]byte(`{"1":{"url":"c.jpg"}}`), &fromObject))
	img, ok := fromObject.Preferred("1")
	require.True(t, ok)
	require.Equal(t, "c.jpg", img.URL)

	img, ok = fromArray.Preferred("7")
	require.True(t, ok)
	require.Equal(t, "a.jpg", img.URL)
}

func TestNewsDecodesMainImage(t *testing.T) {
	var n News
	payload := `{"id": 7, "title": "Festival", "imagen_principal": {"images": {"1": {"url": "f.jpg"}}}}`
	require.NoError(t, json.Unmarshal([]byte(payload), &n))
	require.Equal(t, "7", n.ItemID())
	require.NotNil(t, n.MainImage)
	require.Equal(t, "f.jpg", n.MainImage.Images["1"].URL)
}

func TestQueryValidity(t *testing.T) {
	require.True(t, DestinationQuery{CategoryID: "beach", LocationID: 26}.Valid())
	require.False(t, DestinationQuery{CategoryID: "beach"}.Valid())
	require.False(t, DestinationQuery{LocationID: 26}.Valid())
	require.True(t, NewsQuery{}.Valid())
	require.False(t, SearchQuery{Term: "   "}.Valid())
	require.Equal(t, SearchQuery{Term: "osa"}, SearchQuery{Term: " osa "}.Normalized())
}

func TestLocationLookup(t *testing.T) {
	l, ok := LocationByName("perez zeledon")
	require.True(t, ok)
	require.Equal(t, 32, l.ID)

	l, ok = LocationByName("PUERTO JIMENEZ")
	require.True(t, ok)
	require.Equal(t, 30, l.ID)

	_, ok = LocationByName("Limón")
	require.False(t, ok)

	l, ok = LocationByID(26)
	require.True(t, ok)
	require.Equal(t, "Golfito", l.Name)
}

func TestFetchErrorMatching(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load: %w", NewNetworkError("catalog.news", 0, cause))

	require.ErrorIs(t, err, ErrNetwork)
	require.NotErrorIs(t, err, ErrMalformedResponse)
	require.ErrorIs(t, err, cause)
	require.Equal(t, KindNetwork, ErrorKindOf(err))

	malformed := NewMalformedError("catalog.news", errors.New("missing items"))
	require.ErrorIs(t, malformed, ErrMalformedResponse)
	require.Contains(t, malformed.Error(), "malformed_response")
	require.Equal(t, ErrorKind(0), ErrorKindOf(cause))
}

func TestDefaultPreferences(t *testing.T) {
	p := DefaultPreferences("")
	require.Equal(t, "es", p.Language)
	require.Equal(t, PreferencesKey, p.Key)
	require.False(t, p.Notifications.AppUpdates)
	require.True(t, p.Notifications.NewsUpdates)

	v, err := p.Notifications.Value()
	require.NoError(t, err)

	var back Notifications
	require.NoError(t, back.Scan(v))
	require.Equal(t, p.Notifications, back)
}
