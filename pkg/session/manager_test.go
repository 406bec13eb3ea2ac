package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	data map[string]*domain.State
	mu   sync.Mutex
}

func (s *SlowStore) Save(ctx context.Context, sessionID string, state *domain.State) error {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string]*domain.State)
	}
	s.data[sessionID] = state.Clone()
	return nil
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	time.Sleep(2 * time.Millisecond) // Simulate IO
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.data[sessionID]; ok {
		return state.Clone(), nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *SlowStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

func (s *SlowStore) List(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

func TestManager_Flow(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(scriptGraph(t), &SlowStore{})

	state, err := mgr.Start(ctx, "")
	require.NoError(t, err)
	id := state.SessionID
	assert.NotEmpty(t, id)
	assert.Equal(t, "start", state.CurrentNodeID)

	p, ok, err := mgr.Prompt(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Hey", p.Text)

	turn, err := mgr.Submit(ctx, id, "what?")
	require.NoError(t, err)
	assert.False(t, turn.Resolved)
	require.NotNil(t, turn.Prompt)
	assert.Equal(t, "start", turn.Prompt.ID)

	turn, err = mgr.Submit(ctx, id, "sure")
	require.NoError(t, err)
	assert.True(t, turn.Resolved)
	assert.Equal(t, domain.MatchFuzzy, turn.Match)
	assert.Equal(t, "1", turn.Prompt.ID)

	require.NoError(t, mgr.Jump(ctx, id, "4"))
	turn, err = mgr.Submit(ctx, id, "Done")
	require.NoError(t, err)
	assert.True(t, turn.Done)
	assert.Nil(t, turn.Prompt)

	history, err := mgr.History(ctx, id, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "complete", history[0].NextNodeID)

	assert.ErrorIs(t, mgr.Jump(ctx, id, "missing"), domain.ErrNodeNotFound)

	require.NoError(t, mgr.Reset(ctx, id))
	history, err = mgr.History(ctx, id, 0)
	require.NoError(t, err)
	assert.Empty(t, history)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{id}, ids)

	require.NoError(t, mgr.End(ctx, id))
	assert.ErrorIs(t, mgr.End(ctx, id), domain.ErrSessionNotFound)
	_, _, err = mgr.Prompt(ctx, id)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_StartExisting(t *testing.T) {
	ctx := context.Background()
	mgr := session.NewManager(scriptGraph(t), &SlowStore{}, session.WithIDGenerator(func() string { return "fixed" }))

	state, err := mgr.Start(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "fixed", state.SessionID)

	_, err = mgr.Submit(ctx, "fixed", "Sure")
	require.NoError(t, err)

	state, err = mgr.Start(ctx, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "1", state.CurrentNodeID, "existing session must not be restarted")
}

func TestManager_ConcurrentSubmits(t *testing.T) {
	ctx := context.Background()
	g := mustGraph(t,
		[]string{"1"}, []string{"2"}, []string{"3"}, []string{"4"}, []string{"5"},
		[]string{"6"}, []string{"7"}, []string{"8"}, []string{"9"}, []string{"10"},
		[]string{"11"},
	)
	mgr := session.NewManager(g, &SlowStore{})
	_, err := mgr.Start(ctx, "race")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			turn, err := mgr.Submit(ctx, "race", fmt.Sprintf("answer %d", i))
			assert.NoError(t, err)
			assert.True(t, turn.Resolved)
		}(i)
	}
	wg.Wait()

	// Without serialization some read-modify-write cycles would be lost.
	history, err := mgr.History(ctx, "race", 0)
	require.NoError(t, err)
	assert.Len(t, history, 10)

	state, err := mgr.Load(ctx, "race")
	require.NoError(t, err)
	assert.Equal(t, "11", state.CurrentNodeID)
}

func TestManager_InvalidSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &SlowStore{}
	require.NoError(t, store.Save(ctx, "broken", &domain.State{SessionID: "broken", CurrentNodeID: "gone"}))

	mgr := session.NewManager(scriptGraph(t), store)
	_, _, err := mgr.Prompt(ctx, "broken")
	assert.ErrorIs(t, err, domain.ErrInvalidSessionState)
}

type countingLocker struct {
	mu      sync.Mutex
	locks   int
	unlocks int
	lastTTL time.Duration
}

func (l *countingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locks++
	l.lastTTL = ttl
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.unlocks++
		return nil
	}, nil
}

func TestManager_SessionLocker(t *testing.T) {
	ctx := context.Background()
	locker := &countingLocker{}
	mgr := session.NewManager(scriptGraph(t), &SlowStore{},
		session.WithLocker(locker),
		session.WithLockTTL(5*time.Second),
	)

	_, err := mgr.Start(ctx, "locked")
	require.NoError(t, err)
	_, err = mgr.Submit(ctx, "locked", "Sure")
	require.NoError(t, err)

	assert.Equal(t, 2, locker.locks)
	assert.Equal(t, 2, locker.unlocks)
	assert.Equal(t, 5*time.Second, locker.lastTTL)
}
