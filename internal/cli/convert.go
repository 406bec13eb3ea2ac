package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/scriptflow/pkg/adapters/file"
	"github.com/aretw0/scriptflow/pkg/adapters/loam"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/importer"
	"github.com/aretw0/scriptflow/pkg/schema"
)

// FormatMarkdown exports one markdown file per node, readable by the loam loader.
const FormatMarkdown = "md"

// ImportScript parses a plain-text script into a raw definition.
// Text without numbered prompts becomes the synthetic echo conversation.
func ImportScript(ctx context.Context, path string, logger *slog.Logger) (graph.Definition, error) {
	return importer.NewLoader(file.NewTextSource(path), importer.WithLogger(logger)).Load(ctx)
}

// EncodeTable renders def as an authored table in format (yaml or json).
func EncodeTable(def graph.Definition, format string) ([]byte, error) {
	f, err := schema.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return schema.Encode(schema.FromDefinition(def), f)
}

// WriteMarkdown writes def into dir as a markdown node repository and
// returns the number of files written.
func WriteMarkdown(def graph.Definition, dir string) (int, error) {
	files, err := loam.Marshal(def)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			return 0, fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return len(files), nil
}
