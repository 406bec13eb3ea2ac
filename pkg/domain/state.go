package domain

// State represents a serializable snapshot of a conversation session.
type State struct {
	// SessionID identifies the conversation.
	SessionID string `json:"session_id"`

	// CurrentNodeID is the identifier of the active node.
	CurrentNodeID string `json:"current_node_id"`

	// History tracks the resolved answers, oldest first.
	History []HistoryRecord `json:"history"`

	// Sealed holds an encrypted snapshot. When set, the other fields except
	// SessionID are empty and the state must be opened by the store middleware.
	Sealed []byte `json:"sealed,omitempty"`
}

// NewState creates a clean state starting at a specific node.
func NewState(sessionID, startNodeID string) *State {
	return &State{
		SessionID:     sessionID,
		CurrentNodeID: startNodeID,
		History:       []HistoryRecord{},
	}
}

// Clone returns a copy whose history can be appended without aliasing.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.History = append([]HistoryRecord{}, s.History...)
	return &out
}
