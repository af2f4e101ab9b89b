package sessions

import (
	"context"
	"fmt"
	"sync"

	apperrors "github.com/splashgate/splashgate/internal/errors"
	"github.com/splashgate/splashgate/portal"
)

// InMemorySessionRepo is an in-memory implementation of Repo. A single mutex
// over the whole map gives the compare-and-clear its atomicity.
type InMemorySessionRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewInMemorySessionRepo creates a new in-memory session repository
func NewInMemorySessionRepo() *InMemorySessionRepo {
	return &InMemorySessionRepo{
		sessions: make(map[string]Session),
	}
}

// Upsert creates or updates a session
func (r *InMemorySessionRepo) Upsert(_ context.Context, session Session) error {
	if session.ID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
	return nil
}

// Get retrieves a session by ID
func (r *InMemorySessionRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, fmt.Errorf("sessionID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return Session{}, apperrors.ErrSessionNotFound
	}

	return session, nil
}

// Delete removes a session
func (r *InMemorySessionRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

// PendingGrant returns the session's pending grant record, if any.
func (r *InMemorySessionRepo) PendingGrant(_ context.Context, sessionID string) (portal.GrantRecord, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok || session.PendingGrant == nil {
		return portal.GrantRecord{}, false, nil
	}
	return *session.PendingGrant, true, nil
}

// SetPendingGrant overwrites the session's pending grant slot.
func (r *InMemorySessionRepo) SetPendingGrant(_ context.Context, sessionID string, record portal.GrantRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return apperrors.ErrSessionNotFound
	}
	session.PendingGrant = &record
	r.sessions[sessionID] = session
	return nil
}

// ClearPendingGrant empties the slot only if it still holds the expected
// record. Returns whether this caller performed the clear.
func (r *InMemorySessionRepo) ClearPendingGrant(_ context.Context, sessionID string, expect portal.GrantRecord) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok || session.PendingGrant == nil {
		return false, nil
	}
	if *session.PendingGrant != expect {
		return false, nil
	}
	session.PendingGrant = nil
	r.sessions[sessionID] = session
	return true, nil
}
