package schema

import (
	"errors"
	"fmt"
)

// FieldError represents a single field validation failure.
type FieldError struct {
	NodeID string // Entry the field belongs to (empty for document-level problems)
	Key    string // Field name
	Reason string // Human-readable reason for failure
	Line   int    // Source line when known (YAML only)
}

func (e *FieldError) Error() string {
	where := ""
	if e.Line > 0 {
		where = fmt.Sprintf("line %d: ", e.Line)
	}
	switch {
	case e.NodeID == "" && e.Key == "":
		return where + e.Reason
	case e.NodeID == "":
		return fmt.Sprintf("%sfield %q: %s", where, e.Key, e.Reason)
	case e.Key == "":
		return fmt.Sprintf("%snode %q: %s", where, e.NodeID, e.Reason)
	}
	return fmt.Sprintf("%snode %q field %q: %s", where, e.NodeID, e.Key, e.Reason)
}

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
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
func (e *AggregateError) Unwrap() []error { return e.Errors }

// ValidationErrors returns all validation errors if err is an AggregateError.
// Otherwise returns nil.
func ValidationErrors(err error) []error {
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return nil
}

type collector struct {
	errs []error
}

func (c *collector) add(nodeID, key, reason string, line int) {
	c.errs = append(c.errs, &FieldError{NodeID: nodeID, Key: key, Reason: reason, Line: line})
}

func (c *collector) err() error {
	if len(c.errs) == 0 {
		return nil
	}
	return &AggregateError{Errors: c.errs}
}
