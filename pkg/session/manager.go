package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed session lock may be held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Turn is the outcome of one answer submitted through the Manager.
type Turn struct {
	Resolved bool             `json:"resolved"`
	Match    domain.MatchKind `json:"match,omitempty"`
	Prompt   *domain.Prompt   `json:"prompt,omitempty"`
	Done     bool             `json:"done"`
}

// Manager hosts many sessions over one shared graph, keeping snapshots in a StateStore.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	graph *graph.Graph
	store ports.StateStore

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.SessionLocker // Optional distributed locker
	lockTTL time.Duration
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	newID   func() string
}

// ManagerOption configures the Manager.
type ManagerOption func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.SessionLocker) ManagerOption {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.lockTTL = ttl
		}
	}
}

// WithManagerLogger configures a logger for the Manager and the sessions it restores.
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerHooks registers lifecycle hooks on every session the Manager drives.
func WithManagerHooks(hooks domain.LifecycleHooks) ManagerOption {
	return func(m *Manager) {
		m.hooks = hooks
	}
}

// WithIDGenerator overrides how new session IDs are minted.
func WithIDGenerator(fn func() string) ManagerOption {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a Manager for g backed by store.
func NewManager(g *graph.Graph, store ports.StateStore, opts ...ManagerOption) *Manager {
	m := &Manager{
		graph:   g,
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Graph returns the shared graph.
func (m *Manager) Graph() *graph.Graph { return m.graph }

// Store returns the underlying state store.
func (m *Manager) Store() ports.StateStore { return m.store }

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

// withSession runs fn on the restored session under its lock and saves it afterwards when save is set.
func (m *Manager) withSession(ctx context.Context, sessionID string, save bool, fn func(*Session) error) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		state, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		sess, err := Restore(m.graph, state, WithHooks(m.hooks), WithLogger(m.logger))
		if err != nil {
			return err
		}
		if err := fn(sess); err != nil {
			return err
		}
		if !save {
			return nil
		}
		return m.store.Save(ctx, sessionID, sess.Snapshot())
	})
}

// Start opens a session. An empty sessionID mints a new one; an existing
// session is returned unchanged.
func (m *Manager) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	if sessionID == "" {
		sessionID = m.newID()
	}
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		state = New(m.graph, WithID(sessionID)).Snapshot()
		if err := m.store.Save(ctx, sessionID, state); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		m.logger.Info("Session started", "session_id", sessionID, "node_id", state.CurrentNodeID)
		return nil
	})
	return state, err
}

// Load returns the raw snapshot of a session.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, sessionID)
		return err
	})
	return state, err
}

// Prompt returns the current prompt of a session.
func (m *Manager) Prompt(ctx context.Context, sessionID string) (domain.Prompt, bool, error) {
	var (
		prompt domain.Prompt
		ok     bool
	)
	err := m.withSession(ctx, sessionID, false, func(s *Session) error {
		prompt, ok = s.CurrentPrompt()
		return nil
	})
	return prompt, ok, err
}

// Submit resolves answer for a session and persists the outcome.
func (m *Manager) Submit(ctx context.Context, sessionID, answer string) (Turn, error) {
	var turn Turn
	err := m.withSession(ctx, sessionID, true, func(s *Session) error {
		turn.Match, turn.Resolved = s.Answer(ctx, answer)
		if p, ok := s.CurrentPrompt(); ok {
			turn.Prompt = &p
		}
		turn.Done = s.Done()
		return nil
	})
	return turn, err
}

// Reset rewinds a session to the start node.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	return m.withSession(ctx, sessionID, true, func(s *Session) error {
		s.Reset(ctx)
		return nil
	})
}

// Jump moves a session to nodeID.
func (m *Manager) Jump(ctx context.Context, sessionID, nodeID string) error {
	return m.withSession(ctx, sessionID, true, func(s *Session) error {
		return s.Jump(ctx, nodeID)
	})
}

// History returns the last n records of a session (all when n <= 0).
func (m *Manager) History(ctx context.Context, sessionID string, n int) ([]domain.HistoryRecord, error) {
	var records []domain.HistoryRecord
	err := m.withSession(ctx, sessionID, false, func(s *Session) error {
		records = s.Last(n)
		return nil
	})
	return records, err
}

// End discards a session.
func (m *Manager) End(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return err
		}
		m.logger.Info("Session ended", "session_id", sessionID)
		return nil
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}
