package session

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/loader"
	"golang.org/x/sync/errgroup"
)

// Collection names.
const (
	CollectionDestinations = "destinations"
	CollectionNews         = "news"
	CollectionSearch       = "search"
)

type (
	DestinationsLoader = loader.Loader[domain.Destination, domain.DestinationQuery]
	NewsLoader         = loader.Loader[domain.News, domain.NewsQuery]
	SearchLoader       = loader.Loader[domain.Destination, domain.SearchQuery]
)

// Fetchers supplies pages to the loaders of every session.
type Fetchers struct {
	Destinations loader.Fetcher[domain.Destination, domain.DestinationQuery]
	News         loader.Fetcher[domain.News, domain.NewsQuery]
	Search       loader.Fetcher[domain.Destination, domain.SearchQuery]
}

// Session is one consumer's set of collections. Each collection loads
// independently; they share only the locale.
type Session struct {
	ID           string
	CreatedAt    time.Time
	Destinations *DestinationsLoader
	News         *NewsLoader
	Search       *SearchLoader

	lastSeen atomic.Int64
}

func newSession(id string, f Fetchers, locale string, timeout time.Duration, now time.Time) *Session {
	s := &Session{
		ID:        id,
		CreatedAt: now,
		Destinations: loader.New(f.Destinations, loader.Config{
			Name: CollectionDestinations, Locale: locale, Timeout: timeout,
		}),
		News: loader.New(f.News, loader.Config{
			Name: CollectionNews, Locale: locale, Timeout: timeout,
		}),
		Search: loader.New(f.Search, loader.Config{
			Name: CollectionSearch, Locale: locale, Timeout: timeout,
		}),
	}
	s.touch(now)
	return s
}

// Locale returns the locale the session's collections load in.
func (s *Session) Locale() string {
	return s.Destinations.Locale()
}

// LastSeen returns the last time the session was used.
func (s *Session) LastSeen() time.Time {
	return time.Unix(0, s.lastSeen.Load())
}

func (s *Session) touch(now time.Time) {
	s.lastSeen.Store(now.UnixNano())
}

// SetLocale switches every collection to locale. Collections with an
// active query reload concurrently; the first failure is returned.
func (s *Session) SetLocale(ctx context.Context, locale string) error {
	var g errgroup.Group
	g.Go(func() error { return s.Destinations.SetLocale(ctx, locale) })
	g.Go(func() error { return s.News.SetLocale(ctx, locale) })
	g.Go(func() error { return s.Search.SetLocale(ctx, locale) })
	return g.Wait()
}
