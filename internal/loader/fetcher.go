package loader

import (
	"context"

	"github.com/timmy/brunca/internal/domain"
)

// Query is a comparable filter value. Invalid queries are inactive and
// never reach a Fetcher.
type Query interface {
	comparable
	Valid() bool
}

// Request scopes one page fetch.
type Request[Q Query] struct {
	Query  Q
	Locale string
	Page   int // 1-based
}

// Fetcher retrieves one page of a collection. Implementations must not
// share mutable state between calls and must be safe for concurrent use.
type Fetcher[T domain.Item, Q Query] interface {
	FetchPage(ctx context.Context, req Request[Q]) (domain.Page[T], error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc[T domain.Item, Q Query] func(ctx context.Context, req Request[Q]) (domain.Page[T], error)

// FetchPage implements Fetcher.
func (f FetcherFunc[T, Q]) FetchPage(ctx context.Context, req Request[Q]) (domain.Page[T], error) {
	return f(ctx, req)
}
