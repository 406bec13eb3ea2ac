package dsl

import (
	"fmt"

	"github.com/aretw0/scriptflow/pkg/adapters/memory"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// Builder manages the script construction. Nodes keep the order they were first added in.
type Builder struct {
	nodes      map[string]*NodeBuilder
	order      []string
	startID    string
	terminalID string
}

// New creates a new script builder using the "complete" terminal convention.
func New() *Builder {
	return &Builder{
		nodes:      make(map[string]*NodeBuilder),
		terminalID: domain.DefaultTerminalNodeID,
	}
}

// Add creates a new node in the script.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{
			ID: id,
		},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Start sets the entry node (default: "start", else the first node added).
func (b *Builder) Start(id string) *Builder {
	b.startID = id
	return b
}

// Terminal sets the terminal id.
func (b *Builder) Terminal(id string) *Builder {
	b.terminalID = id
	return b
}

// Definition returns the raw definition in insertion order.
func (b *Builder) Definition() graph.Definition {
	def := graph.Definition{
		StartID:    b.startID,
		TerminalID: b.terminalID,
		Nodes:      make([]domain.Node, 0, len(b.order)),
	}
	for _, id := range b.order {
		def.Nodes = append(def.Nodes, b.nodes[id].Build())
	}
	return def
}

// Build compiles the script into a memory Loader.
func (b *Builder) Build() (*memory.Loader, error) {
	def := b.Definition()
	for i, n := range def.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("failed to build memory loader: node %d missing ID", i)
		}
	}
	return memory.NewLoader(def), nil
}
