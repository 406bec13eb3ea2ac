package session

import (
	"strings"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// Resolve finds the next node for answer at node. It is pure: neither the
// graph nor the node is modified. kind is domain.MatchNone when nothing matched.
func Resolve(g *graph.Graph, node domain.Node, answer string) (next string, kind domain.MatchKind) {
	// The empty string is a substring of every answer.
	if answer == "" {
		return "", domain.MatchNone
	}

	if to, ok := node.Target(answer); ok {
		return to, domain.MatchExact
	}

	lower := strings.ToLower(answer)
	for _, t := range node.Transitions {
		candidate := strings.ToLower(t.Answer)
		if candidate == "" {
			continue
		}
		if strings.Contains(lower, candidate) || strings.Contains(candidate, lower) {
			return t.ToNodeID, domain.MatchFuzzy
		}
	}

	if nextID, ok := domain.NextNumericID(node.ID); ok && g.Has(nextID) {
		return nextID, domain.MatchSequential
	}

	return "", domain.MatchNone
}
