package ports

import (
	"context"

	"github.com/aretw0/scriptflow/pkg/graph"
)

// GraphLoader defines how the engine retrieves a script.
// This allows the source (embedded table, file, markdown directory, text import) to be decoupled.
type GraphLoader interface {
	// Load returns the raw definition. Validation happens later in graph.Build.
	// Loaders that have nothing to offer return domain.ErrSourceUnavailable so
	// the caller can fall through to the next one.
	Load(ctx context.Context) (graph.Definition, error)
}

// SourceLoader fetches the raw script text (e.g. extracted from a document).
type SourceLoader interface {
	// LoadSourceText returns the whole text or an error, never a partial result.
	LoadSourceText(ctx context.Context) (string, error)
}

// GraphLoaderFunc adapts a function to GraphLoader.
type GraphLoaderFunc func(ctx context.Context) (graph.Definition, error)

// Load implements GraphLoader.
func (f GraphLoaderFunc) Load(ctx context.Context) (graph.Definition, error) {
	return f(ctx)
}

// SourceLoaderFunc adapts a function to SourceLoader.
type SourceLoaderFunc func(ctx context.Context) (string, error)

// LoadSourceText implements SourceLoader.
func (f SourceLoaderFunc) LoadSourceText(ctx context.Context) (string, error) {
	return f(ctx)
}
