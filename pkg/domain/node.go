package domain

import "strconv"

// Well-known node identifiers used by authored tables.
const (
	// DefaultStartNodeID is the entry point of an authored table.
	DefaultStartNodeID = "start"
	// DefaultTerminalNodeID marks the end of the conversation.
	DefaultTerminalNodeID = "complete"
)

// Node represents one prompt (conversation state) of the script.
type Node struct {
	ID string `json:"id" yaml:"id"`

	// Text is the prompt shown to the user. It may be a short question or a
	// long explanation/template.
	Text string `json:"text" yaml:"text"`

	// Answers holds the recognized answers in display order.
	Answers []string `json:"answers,omitempty" yaml:"answers,omitempty"`

	// Transitions maps a recognized answer to the next node.
	// Order matters: it is the tie-break order for fuzzy matching.
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty"`

	// Annotation is advisory context for authors. Never part of the flow logic.
	Annotation string `json:"annotation,omitempty" yaml:"annotation,omitempty"`
}

// Target returns the destination for an exact (byte-for-byte) answer.
func (n Node) Target(answer string) (string, bool) {
	for _, t := range n.Transitions {
		if t.Answer == answer {
			return t.ToNodeID, true
		}
	}
	return "", false
}

// HasAnswer reports whether answer is one of the recognized answers.
func (n Node) HasAnswer(answer string) bool {
	for _, a := range n.Answers {
		if a == answer {
			return true
		}
	}
	return false
}

// Numeric reports whether the node id is a pure (unsigned) integer.
func (n Node) Numeric() bool {
	return IsNumericID(n.ID)
}

// Clone returns a deep copy so callers cannot mutate shared graph data.
func (n Node) Clone() Node {
	out := n
	if n.Answers != nil {
		out.Answers = append([]string(nil), n.Answers...)
	}
	if n.Transitions != nil {
		out.Transitions = append([]Transition(nil), n.Transitions...)
	}
	return out
}

// IsNumericID reports whether id consists only of ASCII digits.
func IsNumericID(id string) bool {
	if id == "" {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// NextNumericID returns id+1 for numeric ids.
func NextNumericID(id string) (string, bool) {
	if !IsNumericID(id) {
		return "", false
	}
	n, err := strconv.Atoi(id)
	if err != nil {
		return "", false
	}
	return strconv.Itoa(n + 1), true
}
