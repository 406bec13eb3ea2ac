package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/scriptflow/pkg/domain"
	sfgraph "github.com/aretw0/scriptflow/pkg/graph"
)

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromState builds an overlay from a session snapshot.
func OverlayFromState(state *domain.State) *GraphOverlay {
	if state == nil {
		return nil
	}
	o := &GraphOverlay{CurrentNode: state.CurrentNodeID}
	for _, rec := range state.History {
		o.VisitedNodes = append(o.VisitedNodes, rec.NodeID)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the graph.
// Shapes:
// - Start: ((Circle))
// - Terminal: ([Stadium])
// - Default: [Rectangle]
// Implicit sequential edges (numeric id to id+1) are drawn dotted for nodes
// without transitions.
func GenerateMermaid(g *sfgraph.Graph, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes() {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch {
		case node.ID == g.StartID():
			opener, closer = "((", "))"
		case g.IsTerminal(node.ID):
			opener, closer = "([", "])"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))

		for _, t := range node.Transitions {
			label := strings.ReplaceAll(t.Answer, "\"", "'")
			sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", safeID, label, sanitizeMermaidID(t.ToNodeID)))
		}

		if len(node.Transitions) == 0 {
			if next, ok := domain.NextNumericID(node.ID); ok && g.Has(next) {
				sb.WriteString(fmt.Sprintf("    %s -.-> %s\n", safeID, sanitizeMermaidID(next)))
			}
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			if !g.Has(id) {
				continue
			}
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" && g.Has(overlay.CurrentNode) {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		// Some renderers reject ids with a leading digit.
		s = "n" + s
	}
	return s
}
