package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/loader"
	"github.com/timmy/brunca/internal/logger"
)

// recorder captures the locale of every request it serves.
type recorder struct {
	mu      sync.Mutex
	locales []string
}

func (r *recorder) record(locale string) {
	r.mu.Lock()
	r.locales = append(r.locales, locale)
	r.mu.Unlock()
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.locales...)
}

func testFetchers(rec *recorder) Fetchers {
	return Fetchers{
		Destinations: loader.FetcherFunc[domain.Destination, domain.DestinationQuery](
			func(_ context.Context, req loader.Request[domain.DestinationQuery]) (domain.Page[domain.Destination], error) {
				rec.record(req.Locale)
				return domain.Page[domain.Destination]{
					Items: []domain.Destination{{ID: domain.ID(fmt.Sprintf("%s-%s", req.Locale, req.Query.CategoryID)), Title: "Playa"}},
					Meta:  domain.PageMeta{CurrentPage: 1, TotalPages: 1},
				}, nil
			}),
		News: loader.FetcherFunc[domain.News, domain.NewsQuery](
			func(_ context.Context, req loader.Request[domain.NewsQuery]) (domain.Page[domain.News], error) {
				rec.record(req.Locale)
				return domain.Page[domain.News]{
					Items: []domain.News{{ID: "n1", Title: "Festival"}},
					Meta:  domain.PageMeta{CurrentPage: 1, TotalPages: 1},
				}, nil
			}),
		Search: loader.FetcherFunc[domain.Destination, domain.SearchQuery](
			func(_ context.Context, req loader.Request[domain.SearchQuery]) (domain.Page[domain.Destination], error) {
				rec.record(req.Locale)
				return domain.EmptyPage[domain.Destination](), nil
			}),
	}
}

func newTestRegistry(rec *recorder, ttl time.Duration) *Registry {
	return NewRegistry(testFetchers(rec), Config{IdleTTL: ttl}, logger.NewDefault())
}

func TestRegistry_CreateGetDelete(t *testing.T) {
	reg := newTestRegistry(&recorder{}, time.Minute)

	s := reg.Create("es")
	require.NotEmpty(t, s.ID)
	require.Equal(t, "es", s.Locale())
	require.Equal(t, 1, reg.Len())

	got, ok := reg.Get(s.ID)
	require.True(t, ok)
	require.Same(t, s, got)

	require.True(t, reg.Delete(s.ID))
	require.False(t, reg.Delete(s.ID))
	_, ok = reg.Get(s.ID)
	require.False(t, ok)
}

func TestRegistry_SessionsAreIndependent(t *testing.T) {
	reg := newTestRegistry(&recorder{}, time.Minute)
	ctx := context.Background()

	a := reg.Create("es")
	b := reg.Create("es")
	require.NotEqual(t, a.ID, b.ID)

	_, err := a.Destinations.Query(ctx, domain.DestinationQuery{CategoryID: "7", LocationID: 34})
	require.NoError(t, err)

	require.Len(t, a.Destinations.State().Items, 1)
	require.Empty(t, b.Destinations.State().Items)
}

func TestRegistry_SetLocaleReloadsActiveCollections(t *testing.T) {
	rec := &recorder{}
	reg := newTestRegistry(rec, time.Minute)
	ctx := context.Background()

	a := reg.Create("es")
	b := reg.Create("es")

	_, err := a.Destinations.Query(ctx, domain.DestinationQuery{CategoryID: "7", LocationID: 34})
	require.NoError(t, err)
	_, err = a.News.Query(ctx, domain.NewsQuery{})
	require.NoError(t, err)
	require.Equal(t, []string{"es", "es"}, rec.seen())

	require.NoError(t, reg.SetLocale(ctx, "en"))

	require.Equal(t, "en", a.Locale())
	require.Equal(t, "en", b.Locale())
	require.Equal(t, "en", a.Search.Locale())

	// Only a's two active collections reload; b has no active query.
	require.ElementsMatch(t, []string{"es", "es", "en", "en"}, rec.seen())

	item, ok := a.Destinations.Find("en-7")
	require.True(t, ok)
	require.Equal(t, "Playa", item.Title)
}

func TestRegistry_Sweep(t *testing.T) {
	reg := newTestRegistry(&recorder{}, time.Minute)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	reg.now = func() time.Time { return now }

	stale := reg.Create("es")
	fresh := reg.Create("es")

	now = now.Add(45 * time.Second)
	_, ok := reg.Get(fresh.ID)
	require.True(t, ok)

	now = now.Add(30 * time.Second)
	require.Equal(t, 1, reg.Sweep())

	_, ok = reg.Get(stale.ID)
	require.False(t, ok)
	_, ok = reg.Get(fresh.ID)
	require.True(t, ok)
}

func TestRegistry_RunStopsOnCancel(t *testing.T) {
	reg := newTestRegistry(&recorder{}, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		reg.Run(ctx, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
