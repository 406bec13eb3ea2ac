package graph_test

import (
	"errors"
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id, text string, transitions ...string) domain.Node {
	n := domain.Node{ID: id, Text: text}
	for i := 0; i+1 < len(transitions); i += 2 {
		n.Answers = append(n.Answers, transitions[i])
		n.Transitions = append(n.Transitions, domain.Transition{Answer: transitions[i], ToNodeID: transitions[i+1]})
	}
	return n
}

func TestBuild_Valid(t *testing.T) {
	def := graph.Definition{
		TerminalID: "complete",
		Nodes: []domain.Node{
			node("start", "Hey", "Sure", "1"),
			node("1", "First?", "Yes", "2", "No", "complete"),
			node("2", "Second?", "Ok", "complete"),
		},
	}

	g, err := graph.Build(def)
	require.NoError(t, err)

	assert.Equal(t, "start", g.StartID())
	assert.Equal(t, "complete", g.TerminalID())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []string{"start", "1", "2"}, g.IDs())
	assert.True(t, g.IsTerminal("complete"))
	assert.False(t, g.Has("complete"))

	// Every transition target is a node or the terminal id.
	for _, n := range g.Nodes() {
		for _, tr := range n.Transitions {
			assert.True(t, g.Has(tr.ToNodeID) || g.IsTerminal(tr.ToNodeID), "target %s", tr.ToNodeID)
		}
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := graph.Build(graph.Definition{})
	assert.ErrorIs(t, err, domain.ErrEmptyGraph)
}

func TestBuild_DanglingStrict(t *testing.T) {
	def := graph.Definition{Nodes: []domain.Node{
		node("1", "Q1", "Yes", "2", "No", "99"),
		node("2", "Q2"),
	}}

	_, err := graph.Build(def)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrGraphValidation)

	var dangling *graph.DanglingTransitionError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "1", dangling.NodeID)
	assert.Equal(t, "No", dangling.Answer)
	assert.Equal(t, "99", dangling.Target)

	assert.Len(t, graph.ValidationErrors(err), 1)
}

func TestBuild_DanglingLenient(t *testing.T) {
	def := graph.Definition{Nodes: []domain.Node{
		node("1", "Q1", "Yes", "2", "No", "99"),
		node("2", "Q2"),
	}}

	g, err := graph.Build(def, graph.WithStrict(false))
	require.NoError(t, err)

	n, ok := g.Node("1")
	require.True(t, ok)
	require.Len(t, n.Transitions, 1)
	assert.Equal(t, "Yes", n.Transitions[0].Answer)
	// The recognized answer survives; only the broken edge is dropped.
	assert.Equal(t, []string{"Yes", "No"}, n.Answers)
}

func TestBuild_Duplicates(t *testing.T) {
	dupNode := graph.Definition{Nodes: []domain.Node{
		node("1", "first", "A", "2"),
		node("1", "second"),
		node("2", "two"),
	}}
	dupTransition := graph.Definition{Nodes: []domain.Node{
		{
			ID:      "1",
			Answers: []string{"A", "", "A"},
			Transitions: []domain.Transition{
				{Answer: "A", ToNodeID: "2"},
				{Answer: "A", ToNodeID: "3"},
				{Answer: "", ToNodeID: "2"},
			},
		},
		node("2", "two"),
		node("3", "three"),
	}}

	t.Run("strict", func(t *testing.T) {
		_, err := graph.Build(dupNode)
		assert.ErrorIs(t, err, domain.ErrGraphValidation)

		_, err = graph.Build(dupTransition)
		require.Error(t, err)
		// empty answer, duplicate answer, duplicate transition, empty transition answer
		errs := graph.ValidationErrors(err)
		require.Len(t, errs, 4)
		var nodeErr *graph.NodeError
		require.ErrorAs(t, errs[0], &nodeErr)
		assert.Equal(t, "empty answer", nodeErr.Reason)
	})

	t.Run("lenient", func(t *testing.T) {
		g, err := graph.Build(dupNode, graph.WithStrict(false))
		require.NoError(t, err)
		n, _ := g.Node("1")
		assert.Equal(t, "first", n.Text)
		assert.Equal(t, 2, g.Len())

		g, err = graph.Build(dupTransition, graph.WithStrict(false))
		require.NoError(t, err)
		n, _ = g.Node("1")
		assert.Equal(t, []string{"A"}, n.Answers)
		assert.Equal(t, []domain.Transition{{Answer: "A", ToNodeID: "2"}}, n.Transitions)
	})
}

func TestBuild_MissingID(t *testing.T) {
	def := graph.Definition{Nodes: []domain.Node{{Text: "anonymous"}, node("1", "Q")}}

	_, err := graph.Build(def)
	assert.ErrorIs(t, err, domain.ErrGraphValidation)

	_, err = graph.Build(def, graph.WithStrict(false))
	assert.ErrorIs(t, err, domain.ErrGraphValidation)
}

func TestBuild_StartResolution(t *testing.T) {
	t.Run("defaults to start node", func(t *testing.T) {
		g, err := graph.Build(graph.Definition{Nodes: []domain.Node{node("1", "Q"), node("start", "S")}})
		require.NoError(t, err)
		assert.Equal(t, "start", g.StartID())
	})

	t.Run("defaults to first node", func(t *testing.T) {
		g, err := graph.Build(graph.Definition{Nodes: []domain.Node{node("7", "Q"), node("8", "R")}})
		require.NoError(t, err)
		assert.Equal(t, "7", g.StartID())
	})

	t.Run("missing start", func(t *testing.T) {
		def := graph.Definition{StartID: "nope", Nodes: []domain.Node{node("1", "Q")}}

		_, err := graph.Build(def)
		assert.ErrorIs(t, err, domain.ErrGraphValidation)

		g, err := graph.Build(def, graph.WithStrict(false))
		require.NoError(t, err)
		assert.Equal(t, "1", g.StartID())
	})

	t.Run("override", func(t *testing.T) {
		g, err := graph.Build(graph.Definition{Nodes: []domain.Node{node("1", "Q"), node("2", "R")}}, graph.WithStartNode("2"))
		require.NoError(t, err)
		assert.Equal(t, "2", g.StartID())
	})
}

func TestGraph_Immutable(t *testing.T) {
	def := graph.Definition{Nodes: []domain.Node{node("1", "Q", "Yes", "2"), node("2", "R")}}
	g, err := graph.Build(def)
	require.NoError(t, err)

	// Mutating the input after Build must not leak in.
	def.Nodes[0].Transitions[0].ToNodeID = "mutated"

	n, _ := g.Node("1")
	assert.Equal(t, "2", n.Transitions[0].ToNodeID)

	// Mutating a returned copy must not leak in either.
	n.Transitions[0].ToNodeID = "mutated"
	n.Answers[0] = "mutated"
	again, _ := g.Node("1")
	assert.Equal(t, "2", again.Transitions[0].ToNodeID)
	assert.Equal(t, "Yes", again.Answers[0])
}

func TestGraph_Reachable(t *testing.T) {
	def := graph.Definition{Nodes: []domain.Node{
		node("1", "Q1", "Branch", "2b"),
		node("2b", "Q2b"),
		node("2", "Q2"),
		node("3", "Q3"),
		node("island", "I"),
	}}
	g, err := graph.Build(def)
	require.NoError(t, err)

	reach := g.Reachable()
	assert.True(t, reach["1"])
	assert.True(t, reach["2b"])
	// 1 -> 2 through the sequential fallback, then 2 -> 3.
	assert.True(t, reach["2"])
	assert.True(t, reach["3"])
	assert.Equal(t, []string{"island"}, g.Unreachable())
}

func TestGraph_DefinitionRoundTrip(t *testing.T) {
	def := graph.Definition{
		StartID:    "1",
		TerminalID: "complete",
		Nodes:      []domain.Node{node("1", "Q", "Yes", "complete")},
	}
	g, err := graph.Build(def)
	require.NoError(t, err)

	assert.Equal(t, def, g.Definition())

	_, err = g.MustNode("missing")
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}
