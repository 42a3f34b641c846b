package loader

import (
	"sync"

	"github.com/timmy/brunca/internal/domain"
)

// Store holds the items of one collection in arrival order together with
// the page metadata. Every method leaves the store consistent before it
// returns, so concurrent readers never observe a half-applied page.
type Store[T domain.Item] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int // item id -> position of first occurrence
	meta  domain.PageMeta
}

// NewStore returns an empty store.
func NewStore[T domain.Item]() *Store[T] {
	return &Store[T]{
		items: []T{},
		index: map[string]int{},
	}
}

// Replace overwrites items and page metadata.
func (s *Store[T]) Replace(items []T, meta domain.PageMeta) {
	next := make([]T, len(items))
	copy(next, items)

	index := make(map[string]int, len(next))
	for i, item := range next {
		if _, seen := index[item.ItemID()]; !seen {
			index[item.ItemID()] = i
		}
	}

	s.mu.Lock()
	s.items = next
	s.index = index
	s.meta = meta
	s.mu.Unlock()
}

// Append adds items after the existing ones, skipping any whose id is
// already present, then adopts meta. It returns the number of items added.
func (s *Store[T]) Append(items []T, meta domain.PageMeta) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	added := 0
	for _, item := range items {
		id := item.ItemID()
		if _, dup := s.index[id]; dup {
			continue
		}
		s.index[id] = len(s.items)
		s.items = append(s.items, item)
		added++
	}
	s.meta = meta
	return added
}

// Reset empties the store and returns the metadata to its pre-load value.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	s.items = []T{}
	s.index = map[string]int{}
	s.meta = domain.PageMeta{}
	s.mu.Unlock()
}

// Snapshot returns a copy of the items and the current metadata.
func (s *Store[T]) Snapshot() ([]T, domain.PageMeta) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]T, len(s.items))
	copy(items, s.items)
	return items, s.meta
}

// Meta returns the current page metadata.
func (s *Store[T]) Meta() domain.PageMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Len returns the number of stored items.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Find returns the item with the given id.
func (s *Store[T]) Find(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return s.items[i], true
}
