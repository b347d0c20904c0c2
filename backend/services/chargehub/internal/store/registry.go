package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"chargehub/backend/services/chargehub/internal/projection"
)

// ErrSessionReleased is returned by Acquire for a session that was signed out.
var ErrSessionReleased = errors.New("store: session released")

// tombstoneTTL bounds how long a released id without a known expiry stays
// blocked. Revocation covers the token after that.
const tombstoneTTL = time.Hour

// Factory builds the store for a new session.
type Factory func(sessionID, userID string) *Store

// SessionGauge receives the number of open sessions.
type SessionGauge interface {
	SetActiveSessions(n int)
}

// Session is the per-login state the page controllers work on.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	Store     *Store
	Viewport  *projection.Viewport

	ready sync.Once

	mu       sync.RWMutex
	selected string
}

// Selected returns the id of the station picked on the map, if any.
func (s *Session) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Select remembers the picked station. An empty id clears the selection.
func (s *Session) Select(id string) {
	s.mu.Lock()
	s.selected = id
	s.mu.Unlock()
}

// Registry owns one Session per signed-in token. Sessions are built on first use
// and torn down on sign-out or expiry.
type Registry struct {
	factory   Factory
	gauge     SessionGauge
	logger    *zap.Logger
	onRelease []func(sessionID string)

	mu       sync.Mutex
	sessions map[string]*Session
	released map[string]time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry(factory Factory, gauge SessionGauge, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		factory:  factory,
		gauge:    gauge,
		logger:   logger,
		sessions: make(map[string]*Session),
		released: make(map[string]time.Time),
	}
}

// Acquire returns the session for sessionID, constructing it and running the
// initial FetchAll when it does not exist yet. Concurrent callers for a new
// session all wait for that first fetch, which ignores ctx cancellation and is
// bounded by the store timeout instead. A released session id is never rebuilt.
func (r *Registry) Acquire(ctx context.Context, sessionID, userID string, expiresAt time.Time) (*Session, error) {
	r.mu.Lock()
	if _, gone := r.released[sessionID]; gone {
		r.mu.Unlock()
		return nil, ErrSessionReleased
	}
	sess, ok := r.sessions[sessionID]
	if !ok {
		sess = &Session{
			ID:        sessionID,
			UserID:    userID,
			ExpiresAt: expiresAt,
			Store:     r.factory(sessionID, userID),
			Viewport:  projection.NewViewport(),
		}
		r.sessions[sessionID] = sess
		r.reportLocked()
		r.logger.Info("session store created", zap.String("session_id", sessionID), zap.String("user_id", userID))
	}
	r.mu.Unlock()

	sess.ready.Do(func() {
		sess.Store.FetchAll(context.WithoutCancel(ctx))
	})
	return sess, nil
}

// Lookup returns an existing session without creating one.
func (r *Registry) Lookup(sessionID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[sessionID]
	return sess, ok
}

// Release tears the session down and keeps the id tombstoned until the session
// would have expired. It reports whether a session existed.
func (r *Registry) Release(sessionID string) bool {
	r.mu.Lock()
	sess, ok := r.sessions[sessionID]
	until := now().Add(tombstoneTTL)
	if ok {
		delete(r.sessions, sessionID)
		r.reportLocked()
		if !sess.ExpiresAt.IsZero() {
			until = sess.ExpiresAt
		}
	}
	if prev, seen := r.released[sessionID]; !seen || until.After(prev) {
		r.released[sessionID] = until
	}
	r.mu.Unlock()

	if ok {
		sess.Store.Close()
		r.mu.Lock()
		hooks := r.onRelease
		r.mu.Unlock()
		for _, fn := range hooks {
			fn(sessionID)
		}
		r.logger.Info("session store released", zap.String("session_id", sessionID))
	}
	return ok
}

// OnRelease registers fn to run after a session is torn down.
func (r *Registry) OnRelease(fn func(sessionID string)) {
	r.mu.Lock()
	r.onRelease = append(r.onRelease, fn)
	r.mu.Unlock()
}

// Sweep releases every session whose token expired before at and forgets
// tombstones that can no longer be presented.
func (r *Registry) Sweep(at time.Time) int {
	r.mu.Lock()
	for id, until := range r.released {
		if until.Before(at) {
			delete(r.released, id)
		}
	}
	var expired []string
	for id, sess := range r.sessions {
		if !sess.ExpiresAt.IsZero() && sess.ExpiresAt.Before(at) {
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		r.Release(id)
	}
	return len(expired)
}

// Run sweeps expired sessions every interval until ctx is cancelled.
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
		case t := <-ticker.C:
			if n := r.Sweep(t.UTC()); n > 0 {
				r.logger.Info("expired sessions released", zap.Int("count", n))
			}
		}
	}
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) reportLocked() {
	if r.gauge != nil {
		r.gauge.SetActiveSessions(len(r.sessions))
	}
}
