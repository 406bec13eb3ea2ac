package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/ports"
)

// Loader implements ports.GraphLoader by parsing text from a SourceLoader.
type Loader struct {
	source ports.SourceLoader
	logger *slog.Logger
}

// Option configures the Loader.
type Option func(*Loader)

// WithLogger sets the logger used to report import results.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader creates an importing GraphLoader.
func NewLoader(source ports.SourceLoader, opts ...Option) *Loader {
	l := &Loader{
		source: source,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load fetches the text and parses it. Read failures and blank text return
// domain.ErrSourceUnavailable so the caller can fall back to an authored table.
func (l *Loader) Load(ctx context.Context) (graph.Definition, error) {
	text, err := l.source.LoadSourceText(ctx)
	if err != nil {
		return graph.Definition{}, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, err)
	}
	if strings.TrimSpace(text) == "" {
		return graph.Definition{}, fmt.Errorf("%w: empty text", domain.ErrSourceUnavailable)
	}

	def := Parse(text)
	if len(def.Nodes) == 0 {
		l.logger.Warn("No numbered prompts found, using synthetic conversation", "chars", len(text))
		return Synthetic(text), nil
	}

	l.logger.Debug("Script imported", "nodes", len(def.Nodes), "start", def.StartID)
	return def, nil
}
