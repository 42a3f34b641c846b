package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/brunca/internal/domain"
	"github.com/timmy/brunca/internal/logger"
)

// State is a consistent view of a collection for consumers.
type State[T domain.Item] struct {
	Items          []T             `json:"items"`
	Page           domain.PageMeta `json:"page"`
	IsLoadingFirst bool            `json:"is_loading_first"`
	IsLoadingNext  bool            `json:"is_loading_next"`
	Err            error           `json:"-"`
}

// Config configures a Loader.
type Config struct {
	Name    string        // collection name used in logs
	Locale  string        // initial locale
	Timeout time.Duration // per-fetch timeout; 0 disables it
}

// Loader is the load coordinator of one collection. All methods are safe
// for concurrent use. Query, LoadMore, Refresh, Retry and SetLocale block
// while their fetch is outstanding.
//
// Fetch failures are stored and returned; they never disturb the items
// already loaded. A result issued under a query that is no longer active
// is discarded when it arrives.
type Loader[T domain.Item, Q Query] struct {
	name    string
	timeout time.Duration
	fetcher Fetcher[T, Q]
	store   *Store[T]

	mu           sync.Mutex
	ctrl         *Controller[Q]
	loadingFirst bool
	loadingNext  bool
	lastErr      error
	observers    []func(State[T])
}

// New creates a Loader with no active query.
func New[T domain.Item, Q Query](fetcher Fetcher[T, Q], cfg Config) *Loader[T, Q] {
	return &Loader[T, Q]{
		name:    cfg.Name,
		timeout: cfg.Timeout,
		fetcher: fetcher,
		store:   NewStore[T](),
		ctrl:    NewController[Q](cfg.Locale),
	}
}

// Name returns the collection name.
func (l *Loader[T, Q]) Name() string {
	return l.name
}

// OnChange registers fn to be called with a fresh State after every
// applied mutation. fn runs outside the loader's lock.
func (l *Loader[T, Q]) OnChange(fn func(State[T])) {
	l.mu.Lock()
	l.observers = append(l.observers, fn)
	l.mu.Unlock()
}

// Query activates q. When q differs from the active query the collection
// is reset and its first page loaded. An invalid q deactivates the
// collection without fetching. changed reports whether the active query
// changed; err is the fetch failure of the first page, if any.
func (l *Loader[T, Q]) Query(ctx context.Context, q Q) (changed bool, err error) {
	l.mu.Lock()
	if !l.ctrl.SetQuery(q) {
		l.mu.Unlock()
		return false, nil
	}
	l.resetLocked()

	scope, active := l.ctrl.Current()
	if !active {
		l.mu.Unlock()
		logger.FromContext(ctx).WithField(logger.FieldCollection, l.name).
			Debugf("query deactivated collection: %v", domain.ErrInvalidQuery)
		l.notify()
		return true, nil
	}
	return true, l.loadFirstLocked(ctx, scope)
}

// LoadMore fetches the page after the current one and appends it. It is a
// no-op when no query is active, a load is already in flight, or the last
// page has been reached.
func (l *Loader[T, Q]) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	scope, active := l.ctrl.Current()
	if !active || l.loadingFirst || l.loadingNext {
		l.mu.Unlock()
		return nil
	}
	meta := l.store.Meta()
	if !meta.HasNext() {
		l.mu.Unlock()
		return nil
	}
	l.loadingNext = true
	l.mu.Unlock()
	l.notify()

	req := Request[Q]{Query: scope.Query, Locale: scope.Locale, Page: meta.CurrentPage + 1}
	page, err := l.fetch(ctx, req)

	l.mu.Lock()
	if !l.ctrl.IsCurrent(scope.Generation) {
		l.mu.Unlock()
		l.log(ctx, req.Page).Debug("discarding stale next page")
		return nil
	}
	l.loadingNext = false
	if err != nil {
		l.lastErr = err
		l.mu.Unlock()
		l.log(ctx, req.Page).WithError(err).Warn("next page failed")
		l.notify()
		return err
	}
	added := l.store.Append(page.Items, page.Meta)
	l.lastErr = nil
	l.mu.Unlock()

	logger.With(logger.Fields{
		logger.FieldCollection: l.name,
		logger.FieldPage:       page.Meta.CurrentPage,
		logger.FieldCount:      added,
	}).Debug(ctx, "next page appended")
	l.notify()
	return nil
}

// Refresh discards the collection and reloads the first page of the
// active query. In-flight results are discarded.
func (l *Loader[T, Q]) Refresh(ctx context.Context) error {
	l.mu.Lock()
	if _, active := l.ctrl.Current(); !active {
		l.mu.Unlock()
		return nil
	}
	l.ctrl.Invalidate()
	l.resetLocked()
	scope, _ := l.ctrl.Current()
	return l.loadFirstLocked(ctx, scope)
}

// Retry reloads the first page of the active query, keeping the current
// items until the new page arrives. It is a no-op while any load is in
// flight.
func (l *Loader[T, Q]) Retry(ctx context.Context) error {
	l.mu.Lock()
	scope, active := l.ctrl.Current()
	if !active || l.loadingFirst || l.loadingNext {
		l.mu.Unlock()
		return nil
	}
	return l.loadFirstLocked(ctx, scope)
}

// SetLocale switches the locale used for fetches. With an active query
// the collection is reset and its first page reloaded in the new locale.
func (l *Loader[T, Q]) SetLocale(ctx context.Context, locale string) error {
	l.mu.Lock()
	if !l.ctrl.SetLocale(locale) {
		l.mu.Unlock()
		return nil
	}
	l.resetLocked()
	scope, _ := l.ctrl.Current()
	return l.loadFirstLocked(ctx, scope)
}

// State returns a consistent snapshot of the collection.
func (l *Loader[T, Q]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stateLocked()
}

// LastError returns the failure of the most recent load, or nil when it
// succeeded.
func (l *Loader[T, Q]) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}

// ActiveQuery returns the active query, if any.
func (l *Loader[T, Q]) ActiveQuery() (Q, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	scope, ok := l.ctrl.Current()
	return scope.Query, ok
}

// Locale returns the locale used for fetches.
func (l *Loader[T, Q]) Locale() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ctrl.Locale()
}

// Find returns a loaded item by id.
func (l *Loader[T, Q]) Find(id string) (T, bool) {
	return l.store.Find(id)
}

// loadFirstLocked fetches page 1 for scope and replaces the collection.
// It must be called with l.mu held and releases it.
func (l *Loader[T, Q]) loadFirstLocked(ctx context.Context, scope Scope[Q]) error {
	l.loadingFirst = true
	l.mu.Unlock()
	l.notify()

	req := Request[Q]{Query: scope.Query, Locale: scope.Locale, Page: 1}
	page, err := l.fetch(ctx, req)

	l.mu.Lock()
	if !l.ctrl.IsCurrent(scope.Generation) {
		l.mu.Unlock()
		l.log(ctx, 1).Debug("discarding stale first page")
		return nil
	}
	l.loadingFirst = false
	if err != nil {
		l.lastErr = err
		l.mu.Unlock()
		l.log(ctx, 1).WithError(err).Warn("first page failed")
		l.notify()
		return err
	}
	l.store.Replace(page.Items, page.Meta)
	l.lastErr = nil
	l.mu.Unlock()

	logger.With(logger.Fields{
		logger.FieldCollection: l.name,
		logger.FieldPage:       page.Meta.CurrentPage,
		logger.FieldCount:      len(page.Items),
		"total_pages":          page.Meta.TotalPages,
	}).Debug(ctx, "first page loaded")
	l.notify()
	return nil
}

// resetLocked clears the collection for a new generation. In-flight
// fetches of the previous generation keep running and are discarded on
// arrival, so the single-flight flags are released here.
func (l *Loader[T, Q]) resetLocked() {
	l.store.Reset()
	l.loadingFirst = false
	l.loadingNext = false
	l.lastErr = nil
}

// fetch performs one page request and normalizes its result.
func (l *Loader[T, Q]) fetch(ctx context.Context, req Request[Q]) (domain.Page[T], error) {
	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	page, err := l.fetcher.FetchPage(ctx, req)
	if err != nil {
		return domain.Page[T]{}, classify(l.name, err)
	}

	logger.With(logger.Fields{
		logger.FieldCollection: l.name,
		logger.FieldPage:       req.Page,
	}).WithDuration(time.Since(start).Milliseconds()).Debug(ctx, "page fetched")
	return normalize(page, req.Page), nil
}

func (l *Loader[T, Q]) stateLocked() State[T] {
	items, meta := l.store.Snapshot()
	return State[T]{
		Items:          items,
		Page:           meta,
		IsLoadingFirst: l.loadingFirst,
		IsLoadingNext:  l.loadingNext,
		Err:            l.lastErr,
	}
}

func (l *Loader[T, Q]) notify() {
	l.mu.Lock()
	if len(l.observers) == 0 {
		l.mu.Unlock()
		return
	}
	observers := make([]func(State[T]), len(l.observers))
	copy(observers, l.observers)
	state := l.stateLocked()
	l.mu.Unlock()

	for _, fn := range observers {
		fn(state)
	}
}

func (l *Loader[T, Q]) log(ctx context.Context, page int) *logger.Logger {
	return logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldCollection: l.name,
		logger.FieldPage:       page,
	})
}

// normalize bounds the page metadata: the page reports the
// number it was requested as at least, and never more than TotalPages.
func normalize[T domain.Item](page domain.Page[T], requested int) domain.Page[T] {
	if page.Items == nil {
		page.Items = []T{}
	}
	if page.Meta.CurrentPage < requested {
		page.Meta.CurrentPage = requested
	}
	if page.Meta.TotalPages < page.Meta.CurrentPage {
		page.Meta.TotalPages = page.Meta.CurrentPage
	}
	return page
}

// classify maps fetcher failures onto the error taxonomy. Errors that are
// not already FetchErrors are treated as transport failures.
func classify(name string, err error) error {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewNetworkError(name, 0, fmt.Errorf("timeout: %w", err))
	}
	return domain.NewNetworkError(name, 0, err)
}
