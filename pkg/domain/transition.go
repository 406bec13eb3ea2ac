package domain

// Transition defines a rule to move from one node to another.
type Transition struct {
	// Answer is the recognized answer that triggers the transition, as authored.
	Answer string `json:"answer" yaml:"answer"`

	ToNodeID string `json:"to_node_id" yaml:"to"`
}
