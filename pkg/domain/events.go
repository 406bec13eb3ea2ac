package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter        EventType = "node_enter"
	EventNodeLeave        EventType = "node_leave"
	EventAnswerResolved   EventType = "answer_resolved"
	EventAnswerUnresolved EventType = "answer_unresolved"
	EventReset            EventType = "reset"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID string `json:"node_id"`
}

// AnswerEvent represents one answer submission.
type AnswerEvent struct {
	EventBase
	NodeID     string    `json:"node_id"`
	Answer     string    `json:"answer"`
	NextNodeID string    `json:"next_node_id,omitempty"`
	Match      MatchKind `json:"match,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnNodeEnter        func(context.Context, *NodeEvent)
	OnNodeLeave        func(context.Context, *NodeEvent)
	OnAnswerResolved   func(context.Context, *AnswerEvent)
	OnAnswerUnresolved func(context.Context, *AnswerEvent)
	OnReset            func(context.Context, *NodeEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:        chainNode(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave:        chainNode(h.OnNodeLeave, other.OnNodeLeave),
		OnAnswerResolved:   chainAnswer(h.OnAnswerResolved, other.OnAnswerResolved),
		OnAnswerUnresolved: chainAnswer(h.OnAnswerUnresolved, other.OnAnswerUnresolved),
		OnReset:            chainNode(h.OnReset, other.OnReset),
	}
}

func chainNode(a, b func(context.Context, *NodeEvent)) func(context.Context, *NodeEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *NodeEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainAnswer(a, b func(context.Context, *AnswerEvent)) func(context.Context, *AnswerEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *AnswerEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
