package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// TextHandler implements the line-based terminal interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// ShowContext prints node annotations under the prompt.
	ShowContext bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithShowContext prints node annotations.
func WithShowContext(show bool) TextHandlerOption {
	return func(h *TextHandler) {
		h.ShowContext = show
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff to prevent CPU spikes on persistent failure
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, out Output) error {
	switch out.Kind {
	case OutputPrompt:
		if out.Prompt == nil {
			return nil
		}
		fmt.Fprintln(h.Writer, h.render(out.Prompt.Text))
		if h.ShowContext && out.Prompt.Annotation != "" {
			fmt.Fprintf(h.Writer, "  (%s)\n", out.Prompt.Annotation)
		}
		for i, a := range out.Prompt.Answers {
			fmt.Fprintf(h.Writer, "  %d) %s\n", i+1, a)
		}
	case OutputHistory:
		if len(out.History) == 0 {
			fmt.Fprintln(h.Writer, "No history yet.")
			return nil
		}
		for _, rec := range out.History {
			fmt.Fprintf(h.Writer, "  [%s] %s: %q -> %s\n", rec.At.Format("15:04:05"), rec.NodeID, rec.Answer, rec.NextNodeID)
		}
	case OutputDone:
		if out.Prompt != nil {
			fmt.Fprintln(h.Writer, h.render(out.Prompt.Text))
		}
		fmt.Fprintln(h.Writer, out.Text)
	default:
		fmt.Fprintln(h.Writer, out.Text)
	}
	return nil
}

func (h *TextHandler) render(text string) string {
	if h.Renderer == nil {
		return strings.TrimSpace(text)
	}
	rendered, err := h.Renderer(text)
	if err != nil {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(rendered)
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
