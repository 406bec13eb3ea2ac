package runner

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ioPipe() (*io.PipeReader, *io.PipeWriter) { return io.Pipe() }

func TestTextHandler_Output(t *testing.T) {
	var buf bytes.Buffer
	h := NewTextHandler(strings.NewReader(""), &buf,
		WithTextHandlerRenderer(func(s string) (string, error) { return "Rendered: " + s, nil }),
		WithShowContext(true),
	)

	p := domain.Prompt{ID: "1", Text: "Question?", Answers: []string{"A", "B"}, Annotation: "note"}
	require.NoError(t, h.Output(context.Background(), Output{Kind: OutputPrompt, Prompt: &p}))
	require.NoError(t, h.Output(context.Background(), Output{Kind: OutputHistory}))
	require.NoError(t, h.Output(context.Background(), Output{Kind: OutputHistory, History: []domain.HistoryRecord{
		{NodeID: "1", Answer: "A", NextNodeID: "2", At: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
	}}))

	assert.Equal(t, "Rendered: Question?\n  (note)\n  1) A\n  2) B\nNo history yet.\n  [09:30:00] 1: \"A\" -> 2\n", buf.String())
}

func TestTextHandler_Input(t *testing.T) {
	var buf bytes.Buffer
	h := NewTextHandler(strings.NewReader("  my answer  \n\x1b[0mok\n"), &buf)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "my answer", val)

	val, err = h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[0mok", val)

	_, err = h.Input(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.True(t, strings.HasPrefix(buf.String(), "> "))
}

func TestTextHandler_InputTooLarge(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "5")
	var buf bytes.Buffer
	h := NewTextHandler(strings.NewReader("far too long\nok\n"), &buf)

	val, err := h.Input(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	assert.Contains(t, buf.String(), "input exceeds maximum allowed size")
}

func TestDecodeAnswer(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Yes"`, "Yes"},
		{`{"answer":"No"}`, "No"},
		{`plain text`, "plain text"},
		{`42`, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeAnswer(tt.in))
		})
	}
}

func TestPickSuggestion(t *testing.T) {
	answers := []string{"Yes", "No"}
	assert.Equal(t, "No", pickSuggestion(answers, "2"))
	assert.Equal(t, "3", pickSuggestion(answers, "3"))
	assert.Equal(t, "0", pickSuggestion(answers, "0"))
	assert.Equal(t, "Yes please", pickSuggestion(answers, "Yes please"))
}

func TestParseCommand(t *testing.T) {
	cmd, ok := parseCommand("/History  3")
	require.True(t, ok)
	assert.Equal(t, command{name: "history", arg: "3"}, cmd)

	_, ok = parseCommand("hello")
	assert.False(t, ok)
	_, ok = parseCommand("/")
	assert.False(t, ok)
}
