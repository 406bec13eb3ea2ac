package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/google/uuid"
)

// Session is one user's walk through a graph.
// It is not safe for concurrent use: one turn at a time.
type Session struct {
	id        string
	graph     *graph.Graph
	currentID string
	history   []domain.HistoryRecord

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithID sets the session identifier (default: random UUID).
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// WithHooks registers lifecycle hooks.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = hooks
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for history timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a session positioned at the graph's start node with empty history.
func New(g *graph.Graph, opts ...Option) *Session {
	s := &Session{
		id:        uuid.NewString(),
		graph:     g,
		currentID: g.StartID(),
		logger:    logging.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore rebuilds a session from a snapshot.
// It fails with domain.ErrInvalidSessionState when the cursor is not part of g.
func Restore(g *graph.Graph, state *domain.State, opts ...Option) (*Session, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: nil state", domain.ErrInvalidSessionState)
	}
	if !g.Has(state.CurrentNodeID) && !g.IsTerminal(state.CurrentNodeID) {
		return nil, fmt.Errorf("%w: unknown node %q", domain.ErrInvalidSessionState, state.CurrentNodeID)
	}
	s := New(g, append([]Option{WithID(state.SessionID)}, opts...)...)
	s.currentID = state.CurrentNodeID
	s.history = append([]domain.HistoryRecord(nil), state.History...)
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Graph returns the graph the session walks.
func (s *Session) Graph() *graph.Graph { return s.graph }

// CurrentID returns the cursor.
func (s *Session) CurrentID() string { return s.currentID }

// CurrentPrompt returns the prompt at the cursor.
// It returns false when there is nothing to show: the cursor sits on a
// terminal id that has no node of its own.
func (s *Session) CurrentPrompt() (domain.Prompt, bool) {
	node, ok := s.graph.Node(s.currentID)
	if !ok {
		return domain.Prompt{}, false
	}
	return domain.PromptFor(node, s.graph.IsTerminal(node.ID)), true
}

// Done reports whether the cursor reached the terminal id.
func (s *Session) Done() bool {
	return s.graph.IsTerminal(s.currentID)
}

// Submit resolves answer and advances the cursor. It returns false, leaving
// the session untouched, when the answer does not resolve.
func (s *Session) Submit(ctx context.Context, answer string) bool {
	_, ok := s.Answer(ctx, answer)
	return ok
}

// Answer is Submit that also reports which rule resolved the answer.
func (s *Session) Answer(ctx context.Context, answer string) (domain.MatchKind, bool) {
	node, ok := s.graph.Node(s.currentID)
	if !ok {
		s.unresolved(ctx, answer)
		return domain.MatchNone, false
	}

	next, kind := Resolve(s.graph, node, answer)
	if kind == domain.MatchNone {
		s.unresolved(ctx, answer)
		return domain.MatchNone, false
	}

	s.history = append(s.history, domain.HistoryRecord{
		NodeID:     node.ID,
		Prompt:     node.Text,
		Answer:     answer,
		NextNodeID: next,
		Match:      kind,
		At:         s.now(),
	})

	s.logger.Debug("Answer resolved",
		"session_id", s.id,
		"node_id", node.ID,
		"next_node_id", next,
		"match", kind,
	)

	if s.hooks.OnAnswerResolved != nil {
		s.hooks.OnAnswerResolved(ctx, &domain.AnswerEvent{
			EventBase:  s.event(domain.EventAnswerResolved),
			NodeID:     node.ID,
			Answer:     answer,
			NextNodeID: next,
			Match:      kind,
		})
	}
	s.move(ctx, next)
	return kind, true
}

func (s *Session) unresolved(ctx context.Context, answer string) {
	s.logger.Debug("Answer not recognized", "session_id", s.id, "node_id", s.currentID)
	if s.hooks.OnAnswerUnresolved != nil {
		s.hooks.OnAnswerUnresolved(ctx, &domain.AnswerEvent{
			EventBase: s.event(domain.EventAnswerUnresolved),
			NodeID:    s.currentID,
			Answer:    answer,
		})
	}
}

// Jump moves the cursor to any node without recording history.
func (s *Session) Jump(ctx context.Context, nodeID string) error {
	if !s.graph.Has(nodeID) {
		return fmt.Errorf("%w: %s", domain.ErrNodeNotFound, nodeID)
	}
	s.move(ctx, nodeID)
	return nil
}

// Reset moves the cursor back to the start node and clears history.
func (s *Session) Reset(ctx context.Context) {
	s.currentID = s.graph.StartID()
	s.history = nil
	if s.hooks.OnReset != nil {
		s.hooks.OnReset(ctx, &domain.NodeEvent{
			EventBase: s.event(domain.EventReset),
			NodeID:    s.currentID,
		})
	}
}

func (s *Session) move(ctx context.Context, next string) {
	if s.hooks.OnNodeLeave != nil {
		s.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
			EventBase: s.event(domain.EventNodeLeave),
			NodeID:    s.currentID,
		})
	}
	s.currentID = next
	if s.hooks.OnNodeEnter != nil {
		s.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
			EventBase: s.event(domain.EventNodeEnter),
			NodeID:    next,
		})
	}
}

func (s *Session) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: s.now(), Type: t, SessionID: s.id}
}

// History returns a copy of all records, oldest first.
func (s *Session) History() []domain.HistoryRecord {
	return append([]domain.HistoryRecord{}, s.history...)
}

// Last returns the last n records, oldest first. n <= 0 returns everything.
func (s *Session) Last(n int) []domain.HistoryRecord {
	if n <= 0 || n >= len(s.history) {
		return s.History()
	}
	return append([]domain.HistoryRecord{}, s.history[len(s.history)-n:]...)
}

// Summary describes the loaded script and the cursor.
func (s *Session) Summary() string {
	return fmt.Sprintf("%d prompts loaded, current: %s", s.graph.Len(), s.currentID)
}

// Snapshot returns a serializable copy of the session.
func (s *Session) Snapshot() *domain.State {
	return &domain.State{
		SessionID:     s.id,
		CurrentNodeID: s.currentID,
		History:       s.History(),
	}
}
