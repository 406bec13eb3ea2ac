package runner

import (
	"log/slog"

	"github.com/aretw0/scriptflow/pkg/ports"
)

// Option tunes a Runner built by New.
type Option func(*Runner)

// WithHandler sets where prompts go and answers come from.
// Without it the Runner talks plain text over stdin and stdout.
func WithHandler(h IOHandler) Option {
	return func(r *Runner) { r.Handler = h }
}

// WithStore saves the session after every turn, reset and jump.
// Leave it out for ephemeral chats.
func WithStore(s ports.StateStore) Option {
	return func(r *Runner) { r.Store = s }
}

func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.Logger = l
		}
	}
}

// WithNumberedSuggestions toggles picking a suggestion by its 1-based
// position in the prompt. On by default.
func WithNumberedSuggestions(on bool) Option {
	return func(r *Runner) { r.numbered = on }
}
