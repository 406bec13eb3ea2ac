package schema

import (
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
)

// File keys of an entry.
const (
	KeyQuestion      = "question"
	KeySuggestions   = "suggestions"
	KeyNextQuestions = "next_questions"
	KeyContext       = "context"
)

// Table is an authored conversation table in file order.
type Table struct {
	Entries []Entry
}

// Entry is one node of the table.
type Entry struct {
	ID          string
	Question    string
	Suggestions []string
	Routes      []Route
	Context     string
}

// Route is one ordered next_questions pair.
type Route struct {
	Answer string
	To     string
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.Entries) }

// Definition converts the table into a raw graph definition.
// Tables use the "start"/"complete" conventions for entry and terminal ids.
func (t Table) Definition() graph.Definition {
	def := graph.Definition{
		TerminalID: domain.DefaultTerminalNodeID,
		Nodes:      make([]domain.Node, 0, len(t.Entries)),
	}
	for _, e := range t.Entries {
		n := domain.Node{
			ID:         e.ID,
			Text:       e.Question,
			Annotation: e.Context,
		}
		if len(e.Suggestions) > 0 {
			n.Answers = append([]string(nil), e.Suggestions...)
		}
		for _, r := range e.Routes {
			n.Transitions = append(n.Transitions, domain.Transition{Answer: r.Answer, ToNodeID: r.To})
		}
		def.Nodes = append(def.Nodes, n)
	}
	return def
}

// FromDefinition converts a definition back into a table.
func FromDefinition(def graph.Definition) Table {
	t := Table{Entries: make([]Entry, 0, len(def.Nodes))}
	for _, n := range def.Nodes {
		e := Entry{
			ID:       n.ID,
			Question: n.Text,
			Context:  n.Annotation,
		}
		if len(n.Answers) > 0 {
			e.Suggestions = append([]string(nil), n.Answers...)
		}
		for _, tr := range n.Transitions {
			e.Routes = append(e.Routes, Route{Answer: tr.Answer, To: tr.ToNodeID})
		}
		t.Entries = append(t.Entries, e)
	}
	return t
}
