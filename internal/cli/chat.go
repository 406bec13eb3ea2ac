package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/scriptflow"
	"github.com/aretw0/scriptflow/internal/presentation/tui"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/runner"
	"github.com/aretw0/scriptflow/pkg/session"
)

// ChatOptions configures RunChat.
type ChatOptions struct {
	// SessionID resumes (or creates) a persistent session. Empty runs an ephemeral one.
	SessionID string
	// JSON switches to line-delimited JSON frames for scripted clients.
	JSON bool
	// Plain disables the banner and markdown rendering.
	Plain bool
	// ShowContext prints node annotations under each prompt.
	ShowContext bool

	In     io.Reader
	Out    io.Writer
	Logger *slog.Logger
}

// RunChat runs an interactive conversation on eng until the user quits or it completes.
func RunChat(ctx context.Context, eng *scriptflow.Engine, store ports.StateStore, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	logger := opts.Logger
	if logger == nil {
		logger = eng.Logger()
	}

	sess, resumed, err := openSession(ctx, eng, store, opts.SessionID)
	if err != nil {
		return err
	}

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		var hopts []runner.TextHandlerOption
		if !opts.Plain && tui.IsInteractive() {
			tui.PrintBanner(opts.Out)
			hopts = append(hopts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		hopts = append(hopts, runner.WithShowContext(opts.ShowContext))
		handler = runner.NewTextHandler(opts.In, opts.Out, hopts...)

		switch {
		case resumed:
			printSystemMessage(opts.Out, "Resuming session '%s' at '%s'...", sess.ID(), sess.CurrentID())
		case opts.SessionID != "":
			printSystemMessage(opts.Out, "Session '%s' active.", sess.ID())
		}
	}

	ropts := []runner.Option{
		runner.WithHandler(handler),
		runner.WithLogger(logger),
	}
	if opts.SessionID != "" {
		ropts = append(ropts, runner.WithStore(store))
	}

	logger.Info("Chat started", "session_id", sess.ID(), "node", sess.CurrentID(), "resumed", resumed)
	err = runner.New(ropts...).Run(ctx, sess)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// openSession restores id from store, or starts a fresh session when it is
// unknown or id is empty.
func openSession(ctx context.Context, eng *scriptflow.Engine, store ports.StateStore, id string) (*session.Session, bool, error) {
	if id == "" {
		return eng.NewSession(), false, nil
	}
	state, err := store.Load(ctx, id)
	switch {
	case err == nil:
		sess, err := eng.Restore(state)
		if err != nil {
			return nil, false, fmt.Errorf("session %s: %w", id, err)
		}
		return sess, true, nil
	case errors.Is(err, domain.ErrSessionNotFound):
		return eng.NewSession(session.WithID(id)), false, nil
	default:
		return nil, false, fmt.Errorf("failed to load session %s: %w", id, err)
	}
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
