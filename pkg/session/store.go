package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 2 * time.Hour

type entry struct {
	session    *Session
	lastActive time.Time
}

// Store keeps sessions in process memory and evicts them after an idle TTL.
//
// Every call sweeps expired sessions first, under the same lock as the
// lookup, so a session reaped by a sweep is always reported as not found
// and never handed out afterwards.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry

	ttl      time.Duration
	now      func() time.Time
	greeting string
	logger   *slog.Logger
	onExpire func(n int)
}

// Option configures a Store.
type Option func(*Store)

// WithTTL sets the idle timeout. Non-positive values keep the default.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithGreeting sets the assistant message every new session starts with.
func WithGreeting(text string) Option {
	return func(s *Store) {
		s.greeting = text
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithExpireHook is called with the number of sessions each sweep removed.
func WithExpireHook(fn func(n int)) Option {
	return func(s *Store) {
		s.onExpire = fn
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      DefaultTTL,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrCreate returns the live session for id, creating it if it is new or expired.
// An empty id gets a fresh UUID. On an existing session a non-empty wallet replaces the bound one.
// created reports whether a new session was made.
func (s *Store) GetOrCreate(id, userID, wallet string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	if id == "" {
		id = uuid.NewString()
	}
	if e, ok := s.sessions[id]; ok {
		e.lastActive = s.now()
		if wallet != "" {
			e.session.WalletAddress = wallet
		}
		return e.session, false
	}
	return s.createLocked(id, userID, wallet), true
}

// Get returns the live session for id and refreshes its idle timer.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastActive = s.now()
	return e.session, nil
}

// Reset replaces the session for id with a fresh one that keeps the user and wallet binding.
func (s *Store) Reset(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()

	var userID, wallet string
	if e, ok := s.sessions[id]; ok {
		userID = e.session.UserID
		wallet = e.session.WalletAddress
		delete(s.sessions, id)
	}
	return s.createLocked(id, userID, wallet)
}

// Delete removes a session. Deleting an unknown id is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// Len is the number of live sessions, expired ones included until the next sweep.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes every session idle for longer than the TTL and returns how many it removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked()
}

// Run sweeps on a ticker until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Store) createLocked(id, userID, wallet string) *Session {
	sess := newSession(id, userID, wallet, s.now)
	if s.greeting != "" {
		sess.AddMessage(RoleAssistant, s.greeting)
	}
	s.sessions[id] = &entry{session: sess, lastActive: s.now()}
	return sess
}

func (s *Store) sweepLocked() int {
	cutoff := s.now().Add(-s.ttl)
	removed := 0
	for id, e := range s.sessions {
		if e.lastActive.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.logger.Info("Cleaned up expired sessions", "count", removed)
		if s.onExpire != nil {
			s.onExpire(removed)
		}
	}
	return removed
}
