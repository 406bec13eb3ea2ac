package graph

import (
	"errors"
	"fmt"

	"github.com/aretw0/scriptflow/pkg/domain"
)

// DanglingTransitionError reports a transition whose target is neither a node nor the terminal id.
type DanglingTransitionError struct {
	NodeID string
	Answer string
	Target string
}

func (e *DanglingTransitionError) Error() string {
	return fmt.Sprintf("node %q: answer %q targets unknown node %q", e.NodeID, e.Answer, e.Target)
}

func (e *DanglingTransitionError) Unwrap() error { return domain.ErrGraphValidation }

// NodeError reports a structural problem with a single node.
type NodeError struct {
	NodeID string
	Reason string
}

func (e *NodeError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("node: %s", e.Reason)
	}
	return fmt.Sprintf("node %q: %s", e.NodeID, e.Reason)
}

func (e *NodeError) Unwrap() error { return domain.ErrGraphValidation }

// ValidationError aggregates every problem found while building in strict mode.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the individual errors to errors.Is / errors.As.
func (e *ValidationError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is a ValidationError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Errors
	}
	return nil
}
