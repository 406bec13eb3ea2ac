package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// Loader adapts a Loam repository of markdown nodes to the GraphLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[NodeMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[NodeMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a strict, read-only Loam repository at dir.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open loam repository: %w", err)
	}
	return New(loam.NewTypedRepository[NodeMetadata](repo)), nil
}

type entry struct {
	node  domain.Node
	order int
	path  string
}

// Load reads every node document and orders them by their "order" key.
func (l *Loader) Load(ctx context.Context) (graph.Definition, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return graph.Definition{}, fmt.Errorf("loam list failed: %w", err)
	}
	if len(docs) == 0 {
		return graph.Definition{}, fmt.Errorf("%w: no node documents", domain.ErrSourceUnavailable)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))

	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return graph.Definition{}, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		entries = append(entries, entry{
			node:  buildNode(id, doc.Data, doc.Content),
			order: doc.Data.Order,
			path:  doc.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if (a.order == 0) != (b.order == 0) {
			return a.order != 0
		}
		if a.order != b.order {
			return a.order < b.order
		}
		return a.node.ID < b.node.ID
	})

	def := graph.Definition{TerminalID: domain.DefaultTerminalNodeID}
	for _, e := range entries {
		def.Nodes = append(def.Nodes, e.node)
	}
	return def, nil
}

func buildNode(id string, meta NodeMetadata, content string) domain.Node {
	n := domain.Node{
		ID:         id,
		Text:       strings.TrimSpace(content),
		Annotation: meta.Context,
	}
	if len(meta.Suggestions) > 0 {
		n.Answers = append([]string(nil), meta.Suggestions...)
	}
	for _, r := range meta.NextQuestions {
		n.Transitions = append(n.Transitions, domain.Transition{Answer: r.Answer, ToNodeID: trimExtension(r.To)})
	}
	return n
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
