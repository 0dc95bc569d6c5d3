package loginsession

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jrsteele09/go-event-portal/internal/errors"
)

var _ Repo = (*InMemoryLoginSessionRepo)(nil)

// InMemoryLoginSessionRepo is an in-memory implementation of Repo
type InMemoryLoginSessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
}

// NewInMemoryLoginSessionRepo creates a new in-memory login session repository
func NewInMemoryLoginSessionRepo() *InMemoryLoginSessionRepo {
	return &InMemoryLoginSessionRepo{
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Upsert creates or updates a login session
func (r *InMemoryLoginSessionRepo) Upsert(_ context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
	return nil
}

// Get retrieves a login session. Expired sessions are removed and reported as expired.
func (r *InMemoryLoginSessionRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	session, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, errors.ErrSessionNotFound
	}

	if session.Expired(r.now()) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return Session{}, errors.ErrSessionExpired
	}
	return session, nil
}

func (r *InMemoryLoginSessionRepo) MarkLoaded(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return errors.ErrSessionNotFound
	}
	session.Loaded = true
	r.sessions[sessionID] = session
	return nil
}

// Delete removes a login session
func (r *InMemoryLoginSessionRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
