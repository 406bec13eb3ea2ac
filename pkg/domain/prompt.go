package domain

// Prompt is the read-only snapshot of the current node handed to a presentation layer.
type Prompt struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Answers    []string `json:"answers"`
	Annotation string   `json:"annotation,omitempty"`
	Terminal   bool     `json:"terminal,omitempty"`
}

// PromptFor builds the Prompt view of a node.
func PromptFor(n Node, terminal bool) Prompt {
	answers := make([]string, len(n.Answers))
	copy(answers, n.Answers)
	return Prompt{
		ID:         n.ID,
		Text:       n.Text,
		Answers:    answers,
		Annotation: n.Annotation,
		Terminal:   terminal,
	}
}
