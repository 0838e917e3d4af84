// Package session owns the persisted credential/token pair and the
// login/register/logout flows around it.
package session

import (
	"sync"

	"github.com/shashiranjanraj/foodrun/app/models"
	"github.com/shashiranjanraj/foodrun/pkg/event"
	"github.com/shashiranjanraj/foodrun/pkg/kvstore"
	"github.com/shashiranjanraj/foodrun/pkg/logger"
)

// sessionKey is the fixed key the session lives under in the kvstore.
const sessionKey = "auth"

// ChangedEvent fires on every session write or clear. The payload is the
// new *models.Session, or nil after logout.
const ChangedEvent = "auth.changed"

// Store persists the session and exposes the observable current-user state.
// It implements gateway.TokenSource. All methods are safe for concurrent
// use, though writes only happen on user-initiated auth actions.
type Store struct {
	mu      sync.RWMutex
	kv      kvstore.Store
	current *models.Session
}

// NewStore loads any persisted session from kv. A corrupt or unreadable
// record is treated as logged out rather than an error.
func NewStore(kv kvstore.Store) *Store {
	s := &Store{kv: kv}

	var session models.Session
	found, err := kv.Get(sessionKey, &session)
	if err != nil {
		logger.Warn("session: discarding unreadable persisted session", "error", err)
		return s
	}
	if found && session.Token != "" {
		s.current = &session
	}
	return s
}

// Current returns the active session, or nil when logged out.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether a session with a token is held.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil && s.current.Token != ""
}

// Token returns the bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Save persists the session and fires ChangedEvent.
func (s *Store) Save(session models.Session) error {
	s.mu.Lock()
	if err := s.kv.Set(sessionKey, session); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = &session
	s.mu.Unlock()

	event.Fire(ChangedEvent, &session)
	return nil
}

// Clear drops the persisted session and fires ChangedEvent with nil.
// The in-memory state is cleared even if the kvstore delete fails, so a
// logout always takes effect locally.
func (s *Store) Clear() error {
	s.mu.Lock()
	err := s.kv.Delete(sessionKey)
	s.current = nil
	s.mu.Unlock()

	event.Fire(ChangedEvent, (*models.Session)(nil))
	return err
}
