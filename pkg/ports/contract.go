package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract checks the behaviour every StateStore adapter must
// share. Session ids are unique per run so the suite can target a shared
// backend such as Redis.
func RunStateStoreContract(t *testing.T, store StateStore) {
	t.Helper()
	ctx := context.Background()
	prefix := fmt.Sprintf("contract-%d", time.Now().UnixNano())
	id := func(name string) string { return prefix + "-" + name }

	t.Run("RoundTripKeepsHistory", func(t *testing.T) {
		sid := id("roundtrip")
		at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		st := domain.NewState(sid, "start")
		st.CurrentNodeID = "2b"
		st.History = append(st.History,
			domain.HistoryRecord{NodeID: "start", Prompt: "Ready?", Answer: "Sure", NextNodeID: "1", Match: domain.MatchExact, At: at},
			domain.HistoryRecord{NodeID: "1", Prompt: "Do you know the difference?", Answer: "no idea", NextNodeID: "2b", Match: domain.MatchFuzzy, At: at.Add(time.Minute)},
		)
		require.NoError(t, store.Save(ctx, sid, st))

		got, err := store.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, sid, got.SessionID)
		assert.Equal(t, "2b", got.CurrentNodeID)
		require.Len(t, got.History, 2)
		assert.Equal(t, "no idea", got.History[1].Answer)
		assert.Equal(t, domain.MatchFuzzy, got.History[1].Match)
		assert.True(t, at.Equal(got.History[0].At), "timestamps survive")
	})

	t.Run("SaveOverwrites", func(t *testing.T) {
		sid := id("overwrite")
		require.NoError(t, store.Save(ctx, sid, domain.NewState(sid, "start")))
		next := domain.NewState(sid, "7")
		require.NoError(t, store.Save(ctx, sid, next))

		got, err := store.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "7", got.CurrentNodeID)
		assert.Empty(t, got.History)
	})

	t.Run("LoadIsDetached", func(t *testing.T) {
		sid := id("detached")
		require.NoError(t, store.Save(ctx, sid, domain.NewState(sid, "start")))

		first, err := store.Load(ctx, sid)
		require.NoError(t, err)
		first.CurrentNodeID = "mutated"

		second, err := store.Load(ctx, sid)
		require.NoError(t, err)
		assert.Equal(t, "start", second.CurrentNodeID)
	})

	t.Run("MissingSession", func(t *testing.T) {
		_, err := store.Load(ctx, id("missing"))
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("DeleteEndsSession", func(t *testing.T) {
		sid := id("delete")
		require.NoError(t, store.Save(ctx, sid, domain.NewState(sid, "start")))
		require.NoError(t, store.Delete(ctx, sid))

		_, err := store.Load(ctx, sid)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.NoError(t, store.Delete(ctx, sid), "deleting twice is not an error")
	})

	t.Run("ListSeesLiveSessions", func(t *testing.T) {
		a, b := id("list-a"), id("list-b")
		require.NoError(t, store.Save(ctx, a, domain.NewState(a, "start")))
		require.NoError(t, store.Save(ctx, b, domain.NewState(b, "start")))
		t.Cleanup(func() {
			_ = store.Delete(ctx, a)
			_ = store.Delete(ctx, b)
		})

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, a)
		assert.Contains(t, ids, b)
		assert.NotContains(t, ids, id("delete"))
	})
}
