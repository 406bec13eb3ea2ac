package loam

import (
	"bytes"
	"fmt"

	"github.com/aretw0/scriptflow/pkg/graph"
	"gopkg.in/yaml.v3"
)

// Marshal renders a definition as one markdown document per node, keyed by file name.
// Loading the resulting directory yields the same node order.
func Marshal(def graph.Definition) (map[string][]byte, error) {
	files := make(map[string][]byte, len(def.Nodes))
	for i, n := range def.Nodes {
		meta := NodeMetadata{
			ID:          n.ID,
			Order:       i + 1,
			Suggestions: n.Answers,
			Context:     n.Annotation,
		}
		for _, t := range n.Transitions {
			meta.NextQuestions = append(meta.NextQuestions, Route{Answer: t.Answer, To: t.ToNodeID})
		}

		front, err := yaml.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", n.ID, err)
		}

		var buf bytes.Buffer
		buf.WriteString("---\n")
		buf.Write(front)
		buf.WriteString("---\n")
		buf.WriteString(n.Text)
		buf.WriteString("\n")
		files[n.ID+".md"] = buf.Bytes()
	}
	return files, nil
}
