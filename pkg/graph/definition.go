package graph

import "github.com/aretw0/scriptflow/pkg/domain"

// Definition is the raw, unvalidated output of a loader.
type Definition struct {
	// StartID designates the entry node. Empty means "start" if present,
	// otherwise the first authored node.
	StartID string

	// TerminalID designates the end of the conversation. It may or may not be
	// a node of its own; transitions may always target it.
	TerminalID string

	// Nodes in authored order.
	Nodes []domain.Node
}

// Len returns the number of nodes in the definition.
func (d Definition) Len() int {
	return len(d.Nodes)
}
