package runner

import (
	"context"

	"github.com/aretw0/scriptflow/pkg/domain"
)

// OutputKind tells a handler what a frame carries.
type OutputKind string

const (
	OutputPrompt     OutputKind = "prompt"
	OutputUnresolved OutputKind = "unresolved"
	OutputNotice     OutputKind = "notice"
	OutputHistory    OutputKind = "history"
	OutputDone       OutputKind = "done"
)

// Output is one frame emitted by the runner.
type Output struct {
	Kind    OutputKind             `json:"kind"`
	Prompt  *domain.Prompt         `json:"prompt,omitempty"`
	Text    string                 `json:"text,omitempty"`
	History []domain.HistoryRecord `json:"history,omitempty"`
}

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a frame to the user.
	Output(ctx context.Context, out Output) error

	// Input reads the next line from the user. io.EOF ends the conversation.
	Input(ctx context.Context) (string, error)
}

// ContentRenderer transforms prompt text before it is written.
// This allows markdown rendering without coupling the core packages to a terminal.
type ContentRenderer func(string) (string, error)
