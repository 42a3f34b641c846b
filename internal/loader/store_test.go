package loader

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/timmy/brunca/internal/domain"
)

func TestStore_ReplaceSnapshotRoundTrip(t *testing.T) {
	s := NewStore[item]()
	in := items("a", 0, 5)
	meta := domain.PageMeta{CurrentPage: 1, TotalPages: 4}

	s.Replace(in, meta)
	got, gotMeta := s.Snapshot()

	require.Equal(t, in, got)
	require.Equal(t, meta, gotMeta)

	// The snapshot is a copy.
	got[0].Name = "mutated"
	again, _ := s.Snapshot()
	require.Empty(t, again[0].Name)
}

func TestStore_AppendSkipsKnownIDs(t *testing.T) {
	s := NewStore[item]()
	s.Replace(items("a", 0, 10), domain.PageMeta{CurrentPage: 1, TotalPages: 2})

	added := s.Append(items("a", 9, 10), domain.PageMeta{CurrentPage: 2, TotalPages: 2})

	require.Equal(t, 9, added)
	require.Equal(t, 19, s.Len())
	require.Equal(t, domain.PageMeta{CurrentPage: 2, TotalPages: 2}, s.Meta())

	got, _ := s.Snapshot()
	require.Equal(t, "a-0", got[0].ID)
	require.Equal(t, "a-18", got[18].ID)

	// Re-appending the same page is idempotent.
	require.Zero(t, s.Append(items("a", 9, 10), domain.PageMeta{CurrentPage: 2, TotalPages: 2}))
	require.Equal(t, 19, s.Len())
}

func TestStore_AppendDedupesWithinBatch(t *testing.T) {
	s := NewStore[item]()
	batch := []item{{ID: "x"}, {ID: "y"}, {ID: "x"}}

	require.Equal(t, 2, s.Append(batch, domain.PageMeta{CurrentPage: 1, TotalPages: 1}))
}

func TestStore_ResetAndFind(t *testing.T) {
	s := NewStore[item]()
	s.Replace([]item{{ID: "k", Name: "kayak"}}, domain.PageMeta{CurrentPage: 1, TotalPages: 1})

	found, ok := s.Find("k")
	require.True(t, ok)
	require.Equal(t, "kayak", found.Name)

	s.Reset()
	_, ok = s.Find("k")
	require.False(t, ok)

	got, meta := s.Snapshot()
	require.Empty(t, got)
	require.NotNil(t, got)
	require.Equal(t, domain.PageMeta{}, meta)
}
