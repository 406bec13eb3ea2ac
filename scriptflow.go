package scriptflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/scriptflow/flows"
	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/importer"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/session"
)

// Engine is the high-level entry point for the scriptflow library.
// It owns one immutable graph shared by every session it creates.
type Engine struct {
	graph *graph.Graph

	source     ports.SourceLoader
	loader     ports.GraphLoader
	noDefault  bool
	strict     bool
	startID    string
	terminalID string
	hooks      domain.LifecycleHooks
	logger     *slog.Logger

	// Origin names the loader that produced the graph: "source", "loader", "default".
	Origin string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSource tries the heuristic importer on src before any table.
// An unreadable or blank source falls through to the table.
func WithSource(src ports.SourceLoader) Option {
	return func(e *Engine) {
		e.source = src
	}
}

// WithLoader sets the authored table loader, replacing the embedded default.
func WithLoader(l ports.GraphLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithoutDefaultFlow disables the embedded table as the last fallback.
func WithoutDefaultFlow() Option {
	return func(e *Engine) {
		e.noDefault = true
	}
}

// WithStrict selects strict (default) or lenient graph validation.
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// WithEntryNode overrides the start node.
func WithEntryNode(id string) Option {
	return func(e *Engine) {
		e.startID = id
	}
}

// WithTerminalNode overrides the terminal id.
func WithTerminalNode(id string) Option {
	return func(e *Engine) {
		e.terminalID = id
	}
}

// WithLifecycleHooks registers observability hooks on every session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// New loads and validates the graph.
//
// Loaders are tried in order: the source importer (WithSource), the table
// (WithLoader), then the embedded default table. A loader failing with
// domain.ErrSourceUnavailable hands over to the next one; any other error is
// returned.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	e := &Engine{
		strict: true,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}

	def, origin, err := e.load(ctx)
	if err != nil {
		return nil, err
	}

	buildOpts := []graph.Option{
		graph.WithStrict(e.strict),
		graph.WithLogger(e.logger),
	}
	if e.startID != "" {
		buildOpts = append(buildOpts, graph.WithStartNode(e.startID))
	}
	if e.terminalID != "" {
		buildOpts = append(buildOpts, graph.WithTerminalNode(e.terminalID))
	}

	g, err := graph.Build(def, buildOpts...)
	if err != nil {
		return nil, fmt.Errorf("error building %s graph: %w", origin, err)
	}
	e.graph = g
	e.Origin = origin
	e.logger.Info("Graph loaded", "origin", origin, "nodes", g.Len(), "start", g.StartID())
	return e, nil
}

type namedLoader struct {
	name   string
	loader ports.GraphLoader
}

func (e *Engine) load(ctx context.Context) (graph.Definition, string, error) {
	var chain []namedLoader
	if e.source != nil {
		chain = append(chain, namedLoader{"source", importer.NewLoader(e.source, importer.WithLogger(e.logger))})
	}
	if e.loader != nil {
		chain = append(chain, namedLoader{"loader", e.loader})
	}
	if !e.noDefault {
		chain = append(chain, namedLoader{"default", flows.DefaultLoader()})
	}

	for _, l := range chain {
		def, err := l.loader.Load(ctx)
		if err == nil {
			return def, l.name, nil
		}
		if !errors.Is(err, domain.ErrSourceUnavailable) {
			return graph.Definition{}, l.name, fmt.Errorf("error loading %s graph: %w", l.name, err)
		}
		e.logger.Warn("Graph source unavailable, falling back", "origin", l.name, "err", err)
	}
	return graph.Definition{}, "", fmt.Errorf("no graph available: %w", domain.ErrSourceUnavailable)
}

// Graph returns the validated graph.
func (e *Engine) Graph() *graph.Graph { return e.graph }

// Logger returns the engine logger.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Hooks returns the lifecycle hooks attached to new sessions.
func (e *Engine) Hooks() domain.LifecycleHooks { return e.hooks }

// NewSession creates a session at the start node.
func (e *Engine) NewSession(opts ...session.Option) *session.Session {
	base := []session.Option{session.WithHooks(e.hooks), session.WithLogger(e.logger)}
	return session.New(e.graph, append(base, opts...)...)
}

// Restore rebuilds a session from a stored snapshot.
func (e *Engine) Restore(state *domain.State, opts ...session.Option) (*session.Session, error) {
	base := []session.Option{session.WithHooks(e.hooks), session.WithLogger(e.logger)}
	return session.Restore(e.graph, state, append(base, opts...)...)
}

// NewManager hosts sessions in store.
func (e *Engine) NewManager(store ports.StateStore, opts ...session.ManagerOption) *session.Manager {
	base := []session.ManagerOption{session.WithManagerHooks(e.hooks), session.WithManagerLogger(e.logger)}
	return session.NewManager(e.graph, store, append(base, opts...)...)
}

// GetCurrentPrompt returns the prompt at the session cursor. False means
// there is no prompt to show.
func GetCurrentPrompt(sess *session.Session) (domain.Prompt, bool) {
	return sess.CurrentPrompt()
}

// SubmitAnswer resolves answer and advances the session. False means the
// answer matched nothing and the session did not move.
func SubmitAnswer(ctx context.Context, sess *session.Session, answer string) bool {
	return sess.Submit(ctx, answer)
}

// Reset moves the session back to the start node and clears its history.
func Reset(sess *session.Session) {
	sess.Reset(context.Background())
}

// GetHistory returns the session history, oldest first.
func GetHistory(sess *session.Session) []domain.HistoryRecord {
	return sess.History()
}
