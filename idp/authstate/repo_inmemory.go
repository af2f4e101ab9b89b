package authstate

import (
	"errors"
	"sync"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo
// interface. Flow states only need to live for the seconds the browser
// spends at the identity provider, so process memory is sufficient for a
// single-instance deployment.
type InMemoryRepo struct {
	mu    sync.RWMutex
	flows map[string]*FlowState
}

func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		flows: make(map[string]*FlowState),
	}
}

// Upsert stores or updates a login flow state.
func (r *InMemoryRepo) Upsert(state string, flow *FlowState) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if flow == nil {
		return errors.New("flow cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Store a copy to prevent external modifications
	stored := *flow
	r.flows[state] = &stored
	return nil
}

// Get retrieves a login flow state by state parameter.
func (r *InMemoryRepo) Get(state string) (*FlowState, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	flow, exists := r.flows[state]
	if !exists {
		return nil, errors.New("state not found")
	}

	found := *flow
	return &found, nil
}

// Delete removes a login flow state.
func (r *InMemoryRepo) Delete(state string) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.flows, state)
	return nil
}
