package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/schema"
)

// TableLoader implements ports.GraphLoader over a table file.
type TableLoader struct {
	path   string
	format schema.Format
}

// NewTableLoader creates a loader for path. The format follows the extension.
func NewTableLoader(path string) *TableLoader {
	return &TableLoader{path: path, format: schema.FormatFromPath(path)}
}

// Path returns the file the loader reads.
func (l *TableLoader) Path() string { return l.path }

// Load reads, decodes and validates the table.
// A missing file is reported as domain.ErrSourceUnavailable.
func (l *TableLoader) Load(ctx context.Context) (graph.Definition, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return graph.Definition{}, fmt.Errorf("%w: %s", domain.ErrSourceUnavailable, l.path)
		}
		return graph.Definition{}, fmt.Errorf("failed to read table: %w", err)
	}

	table, err := schema.Decode(data, l.format)
	if err != nil {
		return graph.Definition{}, fmt.Errorf("%s: %w", l.path, err)
	}
	if err := schema.Validate(table); err != nil {
		return graph.Definition{}, fmt.Errorf("%s: %w", l.path, err)
	}
	return table.Definition(), nil
}

// TextSource implements ports.SourceLoader over a text file.
type TextSource struct {
	path string
}

// NewTextSource creates a SourceLoader for path.
func NewTextSource(path string) *TextSource {
	return &TextSource{path: path}
}

// LoadSourceText reads the whole file.
func (s *TextSource) LoadSourceText(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read source: %w", err)
	}
	return string(data), nil
}
