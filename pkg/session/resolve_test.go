package session_test

import (
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustGraph builds a lenient graph from (id, answer, target, answer, target...) rows.
func mustGraph(t *testing.T, rows ...[]string) *graph.Graph {
	t.Helper()
	def := graph.Definition{}
	for _, row := range rows {
		n := domain.Node{ID: row[0], Text: "Q" + row[0]}
		for i := 1; i+1 < len(row); i += 2 {
			n.Answers = append(n.Answers, row[i])
			n.Transitions = append(n.Transitions, domain.Transition{Answer: row[i], ToNodeID: row[i+1]})
		}
		def.Nodes = append(def.Nodes, n)
	}
	g, err := graph.Build(def, graph.WithStrict(false))
	require.NoError(t, err)
	return g
}

func TestResolve(t *testing.T) {
	g := mustGraph(t,
		[]string{"1", "Ye", "A", "Yes", "B"},
		[]string{"2", "Yes", "A", "Yesterday", "B"},
		[]string{"3", "Yes", "A", "yes", "B"},
		[]string{"4", "Yes", "A", "No", "B"},
		[]string{"5"},
		[]string{"5b", "Go", "A"},
		[]string{"s", "Not sure", "A"},
		[]string{"7"},
		[]string{"8"},
		[]string{"A"},
		[]string{"B"},
	)

	tests := []struct {
		name     string
		nodeID   string
		answer   string
		wantNext string
		wantKind domain.MatchKind
	}{
		{"exact beats fuzzy order", "1", "Yes", "B", domain.MatchExact},
		{"fuzzy takes first authored transition", "1", "Yes it is", "A", domain.MatchFuzzy},
		{"input contained in answer", "2", "Yesterday", "B", domain.MatchExact},
		{"answer contained in input", "2", "Yesterday evening", "A", domain.MatchFuzzy},
		{"exact is case sensitive", "3", "yes", "B", domain.MatchExact},
		{"fuzzy is case insensitive", "4", "NO WAY", "B", domain.MatchFuzzy},
		{"numeric falls back to next", "7", "whatever", "8", domain.MatchSequential},
		{"numeric without successor stays", "8", "whatever", "", domain.MatchNone},
		{"gap in numbering stays", "5", "whatever", "", domain.MatchNone},
		{"non numeric never falls back", "5b", "whatever", "", domain.MatchNone},
		{"empty fails", "4", "", "", domain.MatchNone},
		{"space matches an answer containing one", "s", " ", "A", domain.MatchFuzzy},
		{"tab falls back to next", "7", "\t", "8", domain.MatchSequential},
		{"space falls back to next", "7", " ", "8", domain.MatchSequential},
		{"empty fails even with successor", "7", "", "", domain.MatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := g.Node(tt.nodeID)
			require.True(t, ok)

			next, kind := session.Resolve(g, node, tt.answer)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}
