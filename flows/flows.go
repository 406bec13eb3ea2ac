// Package flows embeds the authored conversation tables shipped with scriptflow.
package flows

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/schema"
)

// Default is the hand-authored script, the source of truth when no other source is configured.
//
//go:embed default.yaml
var Default []byte

// DefaultLoader serves the embedded table.
func DefaultLoader() ports.GraphLoader {
	return ports.GraphLoaderFunc(func(ctx context.Context) (graph.Definition, error) {
		table, err := schema.DecodeYAML(Default)
		if err != nil {
			return graph.Definition{}, fmt.Errorf("embedded table: %w", err)
		}
		if err := schema.Validate(table); err != nil {
			return graph.Definition{}, fmt.Errorf("embedded table: %w", err)
		}
		return table.Definition(), nil
	})
}
