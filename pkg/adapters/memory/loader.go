package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// Loader implements ports.GraphLoader over a definition held in memory.
type Loader struct {
	def graph.Definition
}

// NewLoader creates a Loader serving def.
func NewLoader(def graph.Definition) *Loader {
	return &Loader{def: cloneDefinition(def)}
}

// NewFromNodes creates a Loader from domain objects in authored order.
// This improves DX for tests.
func NewFromNodes(nodes ...domain.Node) (*Loader, error) {
	for i, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node %d missing ID", i)
		}
	}
	return NewLoader(graph.Definition{Nodes: nodes}), nil
}

// Load returns a copy of the definition.
func (l *Loader) Load(ctx context.Context) (graph.Definition, error) {
	if len(l.def.Nodes) == 0 {
		return graph.Definition{}, domain.ErrSourceUnavailable
	}
	return cloneDefinition(l.def), nil
}

func cloneDefinition(def graph.Definition) graph.Definition {
	out := def
	out.Nodes = make([]domain.Node, len(def.Nodes))
	for i, n := range def.Nodes {
		out.Nodes[i] = n.Clone()
	}
	return out
}
