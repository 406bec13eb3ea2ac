package graph

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
)

type buildConfig struct {
	strict     bool
	logger     *slog.Logger
	startID    string
	terminalID string
}

// Option configures Build.
type Option func(*buildConfig)

// WithStrict toggles strict validation (default: true).
func WithStrict(strict bool) Option {
	return func(c *buildConfig) {
		c.strict = strict
	}
}

// WithLogger sets the logger used to report dropped data in lenient mode.
func WithLogger(logger *slog.Logger) Option {
	return func(c *buildConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStartNode overrides the definition's start id.
func WithStartNode(id string) Option {
	return func(c *buildConfig) {
		c.startID = id
	}
}

// WithTerminalNode overrides the definition's terminal id.
func WithTerminalNode(id string) Option {
	return func(c *buildConfig) {
		c.terminalID = id
	}
}

// Build validates a Definition and returns an immutable Graph.
func Build(def Definition, opts ...Option) (*Graph, error) {
	cfg := buildConfig{
		strict: true,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.startID != "" {
		def.StartID = cfg.startID
	}
	if cfg.terminalID != "" {
		def.TerminalID = cfg.terminalID
	}

	if len(def.Nodes) == 0 {
		return nil, domain.ErrEmptyGraph
	}

	b := &builder{cfg: cfg, nodes: make(map[string]domain.Node, len(def.Nodes))}
	for _, n := range def.Nodes {
		b.addNode(n)
	}
	if len(b.order) == 0 {
		return nil, b.result(domain.ErrEmptyGraph)
	}

	for _, id := range b.order {
		b.checkTransitions(id, def.TerminalID)
	}

	startID := b.resolveStart(def.StartID)

	if err := b.result(nil); err != nil {
		return nil, err
	}

	return &Graph{
		nodes:      b.nodes,
		order:      b.order,
		startID:    startID,
		terminalID: def.TerminalID,
	}, nil
}

type builder struct {
	cfg   buildConfig
	nodes map[string]domain.Node
	order []string
	errs  []error
}

// problem records err in strict mode, or logs it in lenient mode.
func (b *builder) problem(err error, msg string, args ...any) {
	if b.cfg.strict {
		b.errs = append(b.errs, err)
		return
	}
	b.cfg.logger.Warn(msg, append(args, "err", err)...)
}

func (b *builder) result(fallback error) error {
	if len(b.errs) > 0 {
		return &ValidationError{Errors: b.errs}
	}
	return fallback
}

func (b *builder) addNode(n domain.Node) {
	if n.ID == "" {
		// A node without an id cannot be addressed in either mode.
		b.errs = append(b.errs, &NodeError{Reason: "missing ID"})
		return
	}
	if _, exists := b.nodes[n.ID]; exists {
		b.problem(&NodeError{NodeID: n.ID, Reason: "duplicate node ID"},
			"Duplicate node ignored", "node_id", n.ID)
		return
	}

	n = n.Clone()
	n.Answers = b.dedupeAnswers(n)
	n.Transitions = b.dedupeTransitions(n)

	b.nodes[n.ID] = n
	b.order = append(b.order, n.ID)
}

func (b *builder) dedupeAnswers(n domain.Node) []string {
	seen := make(map[string]bool, len(n.Answers))
	out := make([]string, 0, len(n.Answers))
	for _, a := range n.Answers {
		if a == "" {
			b.problem(&NodeError{NodeID: n.ID, Reason: "empty answer"},
				"Empty answer dropped", "node_id", n.ID)
			continue
		}
		if seen[a] {
			b.problem(&NodeError{NodeID: n.ID, Reason: fmt.Sprintf("duplicate answer %q", a)},
				"Duplicate answer ignored", "node_id", n.ID, "answer", a)
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func (b *builder) dedupeTransitions(n domain.Node) []domain.Transition {
	seen := make(map[string]bool, len(n.Transitions))
	out := make([]domain.Transition, 0, len(n.Transitions))
	for _, t := range n.Transitions {
		if t.Answer == "" {
			b.problem(&NodeError{NodeID: n.ID, Reason: "transition with empty answer"},
				"Empty-answer transition dropped", "node_id", n.ID, "target", t.ToNodeID)
			continue
		}
		if seen[t.Answer] {
			b.problem(&NodeError{NodeID: n.ID, Reason: fmt.Sprintf("duplicate transition for answer %q", t.Answer)},
				"Duplicate transition dropped", "node_id", n.ID, "answer", t.Answer)
			continue
		}
		seen[t.Answer] = true
		out = append(out, t)
	}
	return out
}

func (b *builder) checkTransitions(id, terminalID string) {
	n := b.nodes[id]
	kept := n.Transitions[:0]
	for _, t := range n.Transitions {
		_, exists := b.nodes[t.ToNodeID]
		if exists || (terminalID != "" && t.ToNodeID == terminalID) {
			kept = append(kept, t)
			continue
		}
		b.problem(&DanglingTransitionError{NodeID: id, Answer: t.Answer, Target: t.ToNodeID},
			"Dangling transition dropped", "node_id", id, "answer", t.Answer, "target", t.ToNodeID)
	}
	n.Transitions = kept
	b.nodes[id] = n
}

func (b *builder) resolveStart(startID string) string {
	if startID == "" {
		if _, ok := b.nodes[domain.DefaultStartNodeID]; ok {
			return domain.DefaultStartNodeID
		}
		return b.order[0]
	}
	if _, ok := b.nodes[startID]; ok {
		return startID
	}
	b.problem(&NodeError{NodeID: startID, Reason: "start node not found"},
		"Start node missing, using first node", "start_id", startID, "fallback", b.order[0])
	return b.order[0]
}
