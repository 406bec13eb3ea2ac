package domain

import "time"

// HistoryRecord captures one successful transition.
// History is append-only and never replayed to rebuild state.
type HistoryRecord struct {
	NodeID     string    `json:"node_id"`
	Prompt     string    `json:"prompt"`
	Answer     string    `json:"answer"`
	NextNodeID string    `json:"next_node_id"`
	Match      MatchKind `json:"match,omitempty"`
	At         time.Time `json:"at"`
}
