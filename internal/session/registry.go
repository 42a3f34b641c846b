package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/brunca/internal/logger"
	"golang.org/x/sync/errgroup"
)

const (
	defaultIdleTTL    = 30 * time.Minute
	localeFanOutLimit = 8
)

// Config configures a Registry.
type Config struct {
	IdleTTL      time.Duration // sessions unused for longer are evicted
	FetchTimeout time.Duration // per-fetch timeout of every loader
}

// Registry owns the live sessions.
type Registry struct {
	fetchers Fetchers
	cfg      Config
	logger   *logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry.
func NewRegistry(fetchers Fetchers, cfg Config, log *logger.Logger) *Registry {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultIdleTTL
	}
	return &Registry{
		fetchers: fetchers,
		cfg:      cfg,
		logger:   log.WithField(logger.FieldComponent, "session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session whose collections load in locale.
func (r *Registry) Create(locale string) *Session {
	s := newSession(uuid.NewString(), r.fetchers, locale, r.cfg.FetchTimeout, r.now())

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	r.logger.WithFields(logger.Fields{
		logger.FieldSessionID: s.ID,
		logger.FieldCount:     n,
	}).Debug("Session created")
	return s
}

// Get returns a session and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Delete removes a session. It reports whether the session existed.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	return ok
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// SetLocale switches every live session to locale.
func (r *Registry) SetLocale(ctx context.Context, locale string) error {
	r.mu.RLock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.RUnlock()

	var g errgroup.Group
	g.SetLimit(localeFanOutLimit)
	for _, s := range sessions {
		g.Go(func() error { return s.SetLocale(ctx, locale) })
	}
	err := g.Wait()

	r.logger.WithFields(logger.Fields{
		"locale":          locale,
		logger.FieldCount: len(sessions),
	}).Info("Locale applied to sessions")
	return err
}

// Sweep evicts sessions idle for longer than the configured TTL and
// returns how many were removed.
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.cfg.IdleTTL)

	r.mu.Lock()
	removed := 0
	for id, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	r.mu.Unlock()

	if removed > 0 {
		r.logger.WithField(logger.FieldCount, removed).Info("Evicted idle sessions")
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
