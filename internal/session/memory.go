package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/voxley/voxley/internal/interview"
)

// MemoryStore is an in-memory interview.SessionStore. Snapshots are
// deep-copied through JSON so callers never share mutable state with
// the store. Used in tests and available for ephemeral deployments.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string][]byte{}}
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*interview.SessionState, error) {
	m.mu.RLock()
	raw, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	var state interview.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decoding session: %w", err)
	}
	return &state, nil
}

func (m *MemoryStore) Put(ctx context.Context, sessionID string, state *interview.SessionState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	m.mu.Lock()
	m.sessions[sessionID] = raw
	m.mu.Unlock()
	return nil
}
