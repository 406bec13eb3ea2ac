/*
Package graph holds the FlowGraph: the validated, immutable set of prompts and
answer-labeled transitions a conversation walks.

Loaders produce a raw Definition; Build validates it into a *Graph. In strict
mode any dangling transition aborts construction with a *ValidationError. In
lenient mode broken transitions are dropped and logged, so a best-effort import
still yields a usable graph.

	g, err := graph.Build(def, graph.WithStrict(false), graph.WithLogger(logger))
	if err != nil {
		return err
	}
	node, ok := g.Node(g.StartID())

A Graph is never mutated after Build and all accessors return copies, so one
Graph can be shared by any number of concurrent sessions.
*/
package graph
