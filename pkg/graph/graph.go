package graph

import (
	"fmt"

	"github.com/aretw0/scriptflow/pkg/domain"
)

// Graph is the validated, immutable conversation graph.
type Graph struct {
	nodes      map[string]domain.Node
	order      []string
	startID    string
	terminalID string
}

// StartID returns the entry node id.
func (g *Graph) StartID() string { return g.startID }

// TerminalID returns the terminal id (may be empty when the script has no end marker).
func (g *Graph) TerminalID() string { return g.terminalID }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Has reports whether id is a node of the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// IsTerminal reports whether id is the terminal id.
func (g *Graph) IsTerminal(id string) bool {
	return g.terminalID != "" && id == g.terminalID
}

// Node returns a copy of the node with the given id.
func (g *Graph) Node(id string) (domain.Node, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return domain.Node{}, false
	}
	return n.Clone(), true
}

// MustNode is like Node but fails with ErrNodeNotFound.
func (g *Graph) MustNode(id string) (domain.Node, error) {
	n, ok := g.Node(id)
	if !ok {
		return domain.Node{}, fmt.Errorf("%w: %s", domain.ErrNodeNotFound, id)
	}
	return n, nil
}

// IDs returns node ids in authored order.
func (g *Graph) IDs() []string {
	return append([]string(nil), g.order...)
}

// Nodes returns copies of all nodes in authored order.
func (g *Graph) Nodes() []domain.Node {
	out := make([]domain.Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id].Clone())
	}
	return out
}

// Definition returns the graph back as a raw Definition, e.g. for export.
func (g *Graph) Definition() Definition {
	return Definition{
		StartID:    g.startID,
		TerminalID: g.terminalID,
		Nodes:      g.Nodes(),
	}
}

// Reachable returns the set of node ids reachable from the start node.
func (g *Graph) Reachable() map[string]bool {
	visited := make(map[string]bool)
	queue := []string{g.startID}

	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]

		if visited[currentID] {
			continue
		}
		node, ok := g.nodes[currentID]
		if !ok {
			continue
		}
		visited[currentID] = true

		for _, t := range node.Transitions {
			if !visited[t.ToNodeID] {
				queue = append(queue, t.ToNodeID)
			}
		}
		// Sequential fallback is a real edge for numeric ids.
		if next, ok := domain.NextNumericID(currentID); ok && g.Has(next) && !visited[next] {
			queue = append(queue, next)
		}
	}
	return visited
}

// Unreachable returns node ids that cannot be reached from the start node, in authored order.
func (g *Graph) Unreachable() []string {
	reach := g.Reachable()
	var out []string
	for _, id := range g.order {
		if !reach[id] {
			out = append(out, id)
		}
	}
	return out
}
