package loader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestController_SetQuery(t *testing.T) {
	beach := query{Category: "beach", Location: 26}
	hiking := query{Category: "hiking", Location: 26}
	noLocation := query{Category: "beach"}

	tests := []struct {
		name        string
		steps       []query
		wantChanged []bool
		wantActive  bool
	}{
		{
			name:        "first query activates",
			steps:       []query{beach},
			wantChanged: []bool{true},
			wantActive:  true,
		},
		{
			name:        "equal query is a no-op",
			steps:       []query{beach, beach},
			wantChanged: []bool{true, false},
			wantActive:  true,
		},
		{
			name:        "different query changes",
			steps:       []query{beach, hiking},
			wantChanged: []bool{true, true},
			wantActive:  true,
		},
		{
			name:        "invalid query without active one is ignored",
			steps:       []query{noLocation},
			wantChanged: []bool{false},
			wantActive:  false,
		},
		{
			name:        "invalid query deactivates",
			steps:       []query{beach, noLocation, noLocation},
			wantChanged: []bool{true, true, false},
			wantActive:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController[query]("es")
			for i, q := range tt.steps {
				require.Equal(t, tt.wantChanged[i], c.SetQuery(q), "step %d", i)
			}
			_, active := c.Current()
			require.Equal(t, tt.wantActive, active)
		})
	}
}

func TestController_GenerationTracksChanges(t *testing.T) {
	c := NewController[query]("es")
	c.SetQuery(query{Category: "beach", Location: 26})
	first, _ := c.Current()

	require.True(t, c.IsCurrent(first.Generation))

	c.SetQuery(query{Category: "beach", Location: 26})
	require.True(t, c.IsCurrent(first.Generation), "unchanged query keeps the generation")

	c.Invalidate()
	require.False(t, c.IsCurrent(first.Generation))
}

func TestController_SetLocale(t *testing.T) {
	c := NewController[query]("es")
	require.False(t, c.SetLocale("en"), "no active query, nothing to reload")
	require.Equal(t, "en", c.Locale())

	c.SetQuery(query{Category: "beach", Location: 26})
	require.False(t, c.SetLocale("en"))
	require.True(t, c.SetLocale("es"))

	scope, _ := c.Current()
	require.Equal(t, "es", scope.Locale)
}
