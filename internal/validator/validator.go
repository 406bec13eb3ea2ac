// Package validator audits a built graph the way an author would walk it:
// every suggestion of every node is submitted and the outcome recorded.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/session"
)

// Finding points at one answer of one node.
type Finding struct {
	NodeID string
	Answer string
	Target string
	Match  domain.MatchKind
}

// Report lists authoring problems. None of them prevents a conversation from running.
type Report struct {
	// Unreachable nodes cannot be reached from the start node.
	Unreachable []string
	// DeadEnds are non-terminal nodes with no way forward.
	DeadEnds []string
	// DeadSuggestions are offered answers that resolve to nothing.
	DeadSuggestions []Finding
	// IndirectSuggestions are offered answers that only resolve through the
	// fuzzy or sequential rules, so their target depends on transition order.
	IndirectSuggestions []Finding
	// HiddenRoutes are transitions whose answer is never offered as a suggestion.
	HiddenRoutes []Finding
}

// Audit walks every suggestion of every node.
func Audit(g *graph.Graph) Report {
	r := Report{Unreachable: g.Unreachable()}

	for _, node := range g.Nodes() {
		if !g.IsTerminal(node.ID) && len(node.Transitions) == 0 {
			if next, ok := domain.NextNumericID(node.ID); !ok || !g.Has(next) {
				r.DeadEnds = append(r.DeadEnds, node.ID)
			}
		}

		for _, answer := range node.Answers {
			next, kind := session.Resolve(g, node, answer)
			f := Finding{NodeID: node.ID, Answer: answer, Target: next, Match: kind}
			switch kind {
			case domain.MatchNone:
				r.DeadSuggestions = append(r.DeadSuggestions, f)
			case domain.MatchFuzzy, domain.MatchSequential:
				r.IndirectSuggestions = append(r.IndirectSuggestions, f)
			}
		}

		for _, t := range node.Transitions {
			if !node.HasAnswer(t.Answer) {
				r.HiddenRoutes = append(r.HiddenRoutes, Finding{NodeID: node.ID, Answer: t.Answer, Target: t.ToNodeID, Match: domain.MatchExact})
			}
		}
	}
	return r
}

// Clean reports whether the audit found nothing.
func (r Report) Clean() bool {
	return r.Issues() == 0
}

// Issues counts all findings.
func (r Report) Issues() int {
	return len(r.Unreachable) + len(r.DeadEnds) + len(r.DeadSuggestions) + len(r.IndirectSuggestions) + len(r.HiddenRoutes)
}

// Blocking counts findings that strand a user: dead suggestions and dead ends.
func (r Report) Blocking() int {
	return len(r.DeadEnds) + len(r.DeadSuggestions)
}

func (r Report) String() string {
	if r.Clean() {
		return "no issues found\n"
	}
	var b strings.Builder
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s (%d):\n", title, len(lines))
		for _, l := range lines {
			fmt.Fprintf(&b, "  - %s\n", l)
		}
	}
	findings := func(fs []Finding, withMatch bool) []string {
		out := make([]string, 0, len(fs))
		for _, f := range fs {
			switch {
			case f.Target == "":
				out = append(out, fmt.Sprintf("%s: %q", f.NodeID, f.Answer))
			case withMatch:
				out = append(out, fmt.Sprintf("%s: %q -> %s (%s)", f.NodeID, f.Answer, f.Target, f.Match))
			default:
				out = append(out, fmt.Sprintf("%s: %q -> %s", f.NodeID, f.Answer, f.Target))
			}
		}
		return out
	}

	section("Unreachable nodes", r.Unreachable)
	section("Dead ends", r.DeadEnds)
	section("Suggestions that resolve to nothing", findings(r.DeadSuggestions, false))
	section("Suggestions resolved indirectly", findings(r.IndirectSuggestions, true))
	section("Routes not offered as suggestions", findings(r.HiddenRoutes, false))
	return b.String()
}
