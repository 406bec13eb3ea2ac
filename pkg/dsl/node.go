package dsl

import "github.com/aretw0/scriptflow/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node    domain.Node
	builder *Builder
}

// Ask sets the prompt text.
func (n *NodeBuilder) Ask(text string) *NodeBuilder {
	n.node.Text = text
	return n
}

// Suggest adds recognized answers without a transition of their own.
func (n *NodeBuilder) Suggest(answers ...string) *NodeBuilder {
	for _, a := range answers {
		if !n.node.HasAnswer(a) {
			n.node.Answers = append(n.node.Answers, a)
		}
	}
	return n
}

// Answer adds a recognized answer and its transition.
// Call order is the fuzzy-match tie-break order.
func (n *NodeBuilder) Answer(answer, target string) *NodeBuilder {
	n.Suggest(answer)
	return n.Route(answer, target)
}

// Route adds a transition without listing the answer as a suggestion
// (e.g. a hidden "Start over").
func (n *NodeBuilder) Route(answer, target string) *NodeBuilder {
	n.node.Transitions = append(n.node.Transitions, domain.Transition{
		Answer:   answer,
		ToNodeID: target,
	})
	return n
}

// Note sets the advisory annotation.
func (n *NodeBuilder) Note(annotation string) *NodeBuilder {
	n.node.Annotation = annotation
	return n
}

// Add continues with another node of the same builder.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build returns a copy of the underlying domain.Node.
// This is primarily used by the Builder, but exposed for advanced usage.
func (n *NodeBuilder) Build() domain.Node {
	return n.node.Clone()
}
