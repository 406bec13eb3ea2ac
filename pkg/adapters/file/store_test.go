package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Contract(t *testing.T) {
	ports.RunStateStoreContract(t, NewStore(t.TempDir()))
}

func TestStore_Overwrite(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", domain.NewState("a", "start")))
	st := domain.NewState("a", "1")
	require.NoError(t, s.Save(ctx, "a", st))

	loaded, err := s.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", loaded.CurrentNodeID)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not linger")
}

func TestStore_InvalidIDs(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"", "..", "a/b", `a\b`, "tmp-x"} {
		t.Run(id, func(t *testing.T) {
			assert.ErrorIs(t, s.Save(ctx, id, domain.NewState(id, "start")), ErrInvalidSessionID)
			_, err := s.Load(ctx, id)
			assert.ErrorIs(t, err, ErrInvalidSessionID)
		})
	}
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	ctx := context.Background()

	ids, err := NewStore(filepath.Join(dir, "missing")).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	require.NoError(t, s.Save(ctx, "b", domain.NewState("b", "start")))
	require.NoError(t, s.Save(ctx, "a", domain.NewState("a", "start")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-c-1.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, s.Delete(ctx, "missing"))
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{"), 0o644))

	_, err := NewStore(dir).Load(context.Background(), "bad")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
}
