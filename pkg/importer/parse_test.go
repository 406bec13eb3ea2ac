package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/importer"
	"github.com/aretw0/scriptflow/pkg/ports"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const script = `
Gospel chat script

1. What do you think happens to us after we die?
Not sure.
Heaven and hell.
If they say "Heaven and hell", proceed to Q4
If they answer reincarnation go to 2

2) Do you believe there's a God?
Yes.
No.

4. Have you ever told a lie?
This line is far too long to be mistaken for a short declarative answer.
`

func TestParse(t *testing.T) {
	def := importer.Parse(script)

	assert.Equal(t, "1", def.StartID)
	assert.Equal(t, domain.DefaultTerminalNodeID, def.TerminalID)
	require.Len(t, def.Nodes, 4)

	one := def.Nodes[0]
	assert.Equal(t, "1", one.ID)
	assert.Equal(t, "What do you think happens to us after we die?", one.Text)
	assert.Equal(t, []string{"Not sure", "Heaven and hell", "reincarnation"}, one.Answers)
	assert.Equal(t, []domain.Transition{
		{Answer: "Heaven and hell", ToNodeID: "4"},
		{Answer: "reincarnation", ToNodeID: "2"},
	}, one.Transitions)

	// Without annotations the node falls back to the next-higher id.
	two := def.Nodes[1]
	assert.Equal(t, []string{"Yes", "No", "Not sure"}, two.Answers)
	for _, tr := range two.Transitions {
		assert.Equal(t, "4", tr.ToNodeID)
	}

	// The last node falls back to the appended terminal node.
	four := def.Nodes[2]
	assert.Equal(t, "4", four.ID)
	require.Len(t, four.Transitions, 3)
	assert.Equal(t, domain.DefaultTerminalNodeID, four.Transitions[0].ToNodeID)

	terminal := def.Nodes[3]
	assert.Equal(t, domain.DefaultTerminalNodeID, terminal.ID)
	assert.Equal(t, importer.TerminalText, terminal.Text)

	g, err := graph.Build(def)
	require.NoError(t, err, "imported scripts must pass strict validation when annotations are consistent")

	s := session.New(g)
	ctx := context.Background()
	require.True(t, s.Submit(ctx, "Heaven and hell"))
	assert.Equal(t, "4", s.CurrentID())
	require.True(t, s.Submit(ctx, "yes"))
	assert.True(t, s.Done())
}

func TestParse_DanglingAnnotation(t *testing.T) {
	def := importer.Parse("1. First?\nIf they say no, proceed to Q9\n2. Second?\n")

	_, err := graph.Build(def)
	var dangling *graph.DanglingTransitionError
	require.True(t, errors.As(err, &dangling))
	assert.Equal(t, "9", dangling.Target)

	g, err := graph.Build(def, graph.WithStrict(false))
	require.NoError(t, err)
	n, _ := g.Node("1")
	assert.Equal(t, []string{"no", "Yes", "Not sure"}, n.Answers)
	assert.Equal(t, []domain.Transition{
		{Answer: "Yes", ToNodeID: "2"},
		{Answer: "Not sure", ToNodeID: "2"},
	}, n.Transitions)

	s := session.New(g)
	assert.True(t, s.Submit(context.Background(), "anything"))
	assert.Equal(t, "2", s.CurrentID())
}

func TestParse_DanglingAnnotationAcrossGap(t *testing.T) {
	def := importer.Parse("1. Intro?\n2) Do you believe in God?\nIf they answer No, go to 9\n4. Last one?\n")

	g, err := graph.Build(def, graph.WithStrict(false))
	require.NoError(t, err)

	two, ok := g.Node("2")
	require.True(t, ok)
	assert.Equal(t, []string{"No", "Yes", "Not sure"}, two.Answers)
	require.NotEmpty(t, two.Transitions)
	for _, tr := range two.Transitions {
		assert.Equal(t, "4", tr.ToNodeID)
	}

	// No sequential successor exists for "2", so every suggestion must route on its own.
	for _, answer := range two.Answers {
		t.Run(answer, func(t *testing.T) {
			s := session.New(g)
			require.NoError(t, s.Jump(context.Background(), "2"))
			assert.True(t, s.Submit(context.Background(), answer))
			assert.Equal(t, "4", s.CurrentID())
		})
	}
}

func TestParse_RepeatedNumber(t *testing.T) {
	def := importer.Parse("1. Old\n2. Two\n1. New\nYes.\n")
	require.Len(t, def.Nodes, 3)
	assert.Equal(t, "1", def.Nodes[0].ID)
	assert.Equal(t, "New", def.Nodes[0].Text)
	assert.Equal(t, "2", def.Nodes[1].ID)
}

func TestParse_NoStructure(t *testing.T) {
	def := importer.Parse("just some prose\nwithout numbers")
	assert.Empty(t, def.Nodes)
}

func TestSynthetic(t *testing.T) {
	text := strings.Repeat("x", 1500)
	def := importer.Synthetic(text)
	require.Len(t, def.Nodes, 3)
	assert.Contains(t, def.Nodes[2].Text, strings.Repeat("x", importer.EchoLimit)+"...")
	assert.NotContains(t, def.Nodes[2].Text, strings.Repeat("x", importer.EchoLimit+1))

	_, err := graph.Build(def)
	assert.NoError(t, err)
}

func TestLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("parses", func(t *testing.T) {
		l := importer.NewLoader(ports.SourceLoaderFunc(func(context.Context) (string, error) { return script, nil }))
		def, err := l.Load(ctx)
		require.NoError(t, err)
		assert.Len(t, def.Nodes, 4)
	})

	t.Run("synthetic when unstructured", func(t *testing.T) {
		l := importer.NewLoader(ports.SourceLoaderFunc(func(context.Context) (string, error) { return "hello there", nil }))
		def, err := l.Load(ctx)
		require.NoError(t, err)
		assert.Contains(t, def.Nodes[2].Text, "hello there")
	})

	t.Run("unavailable", func(t *testing.T) {
		failing := importer.NewLoader(ports.SourceLoaderFunc(func(context.Context) (string, error) {
			return "", errors.New("pdf is encrypted")
		}))
		_, err := failing.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)

		blank := importer.NewLoader(ports.SourceLoaderFunc(func(context.Context) (string, error) { return "  \n ", nil }))
		_, err = blank.Load(ctx)
		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
	})
}
