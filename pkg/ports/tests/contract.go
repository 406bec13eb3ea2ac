// Package tests holds reusable contract suites for GraphLoader adapters.
package tests

import (
	"context"
	"testing"

	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// GraphLoaderContractTest verifies that an adapter complies with ports.GraphLoader:
// the loaded definition builds strictly and preserves authored node and transition order.
// want is the definition the loader is expected to produce.
func GraphLoaderContractTest(t *testing.T, loader ports.GraphLoader, want graph.Definition) {
	t.Helper()
	ctx := context.Background()

	def, err := loader.Load(ctx)
	require.NoError(t, err)

	t.Run("NodeOrder", func(t *testing.T) {
		require.Len(t, def.Nodes, len(want.Nodes))
		for i := range want.Nodes {
			assert.Equal(t, want.Nodes[i].ID, def.Nodes[i].ID, "node %d", i)
		}
	})

	t.Run("Content", func(t *testing.T) {
		for i := range want.Nodes {
			got := def.Nodes[i]
			exp := want.Nodes[i]
			assert.Equal(t, exp.Text, got.Text, "node %s text", exp.ID)
			assert.Equal(t, exp.Answers, got.Answers, "node %s answers", exp.ID)
			assert.Equal(t, exp.Transitions, got.Transitions, "node %s transitions", exp.ID)
			assert.Equal(t, exp.Annotation, got.Annotation, "node %s annotation", exp.ID)
		}
	})

	t.Run("Builds", func(t *testing.T) {
		_, err := graph.Build(def)
		assert.NoError(t, err)
	})

	t.Run("Idempotent", func(t *testing.T) {
		again, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, def, again)
	})
}
