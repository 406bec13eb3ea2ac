package domain

// StateDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	CurrentNodeID *string `json:"current_node_id,omitempty"`

	// Appended contains history records added since the old snapshot.
	Appended []HistoryRecord `json:"appended,omitempty"`

	// Reset is set when the history shrank, i.e. the session was reset.
	Reset bool `json:"reset,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
// It returns nil when nothing changed.
func Diff(oldState, newState *State) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		SessionID: newState.SessionID,
	}

	if oldState == nil || oldState.CurrentNodeID != newState.CurrentNodeID {
		diff.CurrentNodeID = &newState.CurrentNodeID
	}

	switch {
	case oldState == nil:
		diff.Appended = newState.History
	case len(newState.History) < len(oldState.History):
		diff.Reset = true
		diff.Appended = newState.History
	case len(newState.History) > len(oldState.History):
		diff.Appended = newState.History[len(oldState.History):]
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return d.CurrentNodeID == nil && len(d.Appended) == 0 && !d.Reset
}
