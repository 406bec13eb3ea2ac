package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopStore struct{}

func (nopStore) Save(ctx context.Context, sessionID string, state *domain.State) error { return nil }
func (nopStore) Load(ctx context.Context, sessionID string) (*domain.State, error) {
	return nil, domain.ErrSessionNotFound
}
func (nopStore) Delete(ctx context.Context, sessionID string) error { return nil }
func (nopStore) List(ctx context.Context) ([]string, error)         { return nil, nil }

func TestManager_LockLifecycle(t *testing.T) {
	g, err := graph.Build(graph.Definition{Nodes: []domain.Node{{ID: "start", Text: "Hi"}}})
	require.NoError(t, err)

	mgr := NewManager(g, nopStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_, _ = mgr.Start(ctx, sid)
		_ = mgr.End(ctx, sid)
	}

	assert.Empty(t, mgr.locks, "locks must be released once no caller holds them")
}
