package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/aretw0/scriptflow/internal/logging"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/session"
)

// UnresolvedText is shown when an answer matches nothing.
const UnresolvedText = "Sorry, I did not catch that. Pick one of the suggestions or type /help."

// DoneText is shown when the conversation reaches a terminal node with nowhere to go.
const DoneText = "Conversation complete."

// Runner handles the chat loop of a session using a pluggable IOHandler.
type Runner struct {
	Handler IOHandler

	// Store is the persistence adapter. If nil, sessions are ephemeral.
	Store ports.StateStore

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	numbered bool
}

// New creates a Runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		Logger:   logging.NewNop(),
		numbered: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run drives sess until the user quits, input ends, ctx is cancelled or the
// conversation reaches a terminal node without transitions.
// EOF and /quit end the loop without error.
func (r *Runner) Run(ctx context.Context, sess *session.Session) error {
	var current domain.Prompt
	show := true

	for {
		if show {
			show = false
			if err := r.persist(ctx, sess); err != nil {
				return err
			}

			p, ok := sess.CurrentPrompt()
			if sess.Done() && (!ok || len(p.Answers) == 0) {
				out := Output{Kind: OutputDone, Text: DoneText}
				if ok {
					out.Prompt = &p
				}
				return r.Handler.Output(ctx, out)
			}
			if !ok {
				return fmt.Errorf("%w: cursor %q", domain.ErrInvalidSessionState, sess.CurrentID())
			}

			current = p
			if err := r.Handler.Output(ctx, Output{Kind: OutputPrompt, Prompt: &current}); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}

		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, ErrInputTooLarge) || errors.Is(err, ErrInvalidUTF8) {
				if err := r.notice(ctx, err.Error()); err != nil {
					return err
				}
				continue
			}
			return err
		}

		if cmd, ok := parseCommand(line); ok {
			quit, changed, err := r.command(ctx, sess, cmd)
			if err != nil || quit {
				return err
			}
			show = changed
			continue
		}

		answer := line
		if r.numbered {
			answer = pickSuggestion(current.Answers, line)
		}

		if !sess.Submit(ctx, answer) {
			r.Logger.Debug("answer unresolved", "session_id", sess.ID(), "node_id", sess.CurrentID())
			if err := r.Handler.Output(ctx, Output{Kind: OutputUnresolved, Text: UnresolvedText}); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}
		show = true
	}
}

func (r *Runner) command(ctx context.Context, sess *session.Session, cmd command) (quit, changed bool, err error) {
	switch cmd.name {
	case "quit", "exit", "q":
		return true, false, r.persist(ctx, sess)
	case "reset", "restart":
		sess.Reset(ctx)
		return false, true, nil
	case "history":
		n := 0
		if cmd.arg != "" {
			if n, err = strconv.Atoi(cmd.arg); err != nil || n < 0 {
				return false, false, r.notice(ctx, "usage: /history [n]")
			}
		}
		records := sess.History()
		if n > 0 {
			records = sess.Last(n)
		}
		return false, false, r.Handler.Output(ctx, Output{Kind: OutputHistory, History: records})
	case "jump", "goto":
		if cmd.arg == "" {
			return false, false, r.notice(ctx, "usage: /jump <id>")
		}
		if err := sess.Jump(ctx, cmd.arg); err != nil {
			return false, false, r.notice(ctx, err.Error())
		}
		return false, true, nil
	case "summary":
		return false, false, r.notice(ctx, sess.Summary())
	case "help":
		return false, false, r.notice(ctx, helpText)
	default:
		return false, false, r.notice(ctx, fmt.Sprintf("unknown command /%s, type /help", cmd.name))
	}
}

func (r *Runner) notice(ctx context.Context, text string) error {
	if err := r.Handler.Output(ctx, Output{Kind: OutputNotice, Text: text}); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

func (r *Runner) persist(ctx context.Context, sess *session.Session) error {
	if r.Store == nil {
		return nil
	}
	state := sess.Snapshot()
	if err := r.Store.Save(ctx, sess.ID(), state); err != nil {
		return fmt.Errorf("critical persistence error: %w", err)
	}
	r.Logger.Debug("state saved", "session_id", sess.ID(), "node_id", state.CurrentNodeID)
	return nil
}
