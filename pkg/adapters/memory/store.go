package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/scriptflow/pkg/domain"
)

// Store is a process-local ports.StateStore. Snapshots are cloned on the
// way in and on the way out, so callers never share history slices with it.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*domain.State
}

// NewStore returns an empty Store, optionally seeded with snapshots keyed
// by their SessionID.
func NewStore(seed ...*domain.State) *Store {
	s := &Store{sessions: make(map[string]*domain.State, len(seed))}
	for _, st := range seed {
		if st != nil {
			s.sessions[st.SessionID] = st.Clone()
		}
	}
	return s
}

func (s *Store) Save(_ context.Context, sessionID string, state *domain.State) error {
	snap := state.Clone()
	s.mu.Lock()
	s.sessions[sessionID] = snap
	s.mu.Unlock()
	return nil
}

func (s *Store) Load(_ context.Context, sessionID string) (*domain.State, error) {
	s.mu.RLock()
	snap, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return snap.Clone(), nil
}

// Delete is a no-op for unknown ids.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// List returns session ids in lexical order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}

// Len reports how many sessions are held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
