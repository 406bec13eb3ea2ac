package validator

import (
	"context"
	"testing"

	"github.com/aretw0/scriptflow/flows"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/dsl"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudit(t *testing.T) {
	b := dsl.New()
	b.Add("start").
		Ask("Hi").
		Answer("Yes", "1").
		Suggest("Yes please", "Never").
		Route("Start over", "start")
	b.Add("1").Ask("One")
	b.Add("2").Ask("Two")
	b.Add("island").Ask("Nobody comes here")
	b.Add("complete").Ask("Bye")

	g, err := graph.Build(b.Definition())
	require.NoError(t, err)

	r := Audit(g)

	assert.Equal(t, []string{"island", "complete"}, r.Unreachable)
	assert.Equal(t, []string{"2", "island"}, r.DeadEnds)
	assert.Equal(t, []Finding{{NodeID: "start", Answer: "Never"}}, r.DeadSuggestions)
	assert.Equal(t, []Finding{{NodeID: "start", Answer: "Yes please", Target: "1", Match: domain.MatchFuzzy}}, r.IndirectSuggestions)
	assert.Equal(t, []Finding{{NodeID: "start", Answer: "Start over", Target: "start", Match: domain.MatchExact}}, r.HiddenRoutes)

	assert.False(t, r.Clean())
	assert.Equal(t, 3, r.Blocking())
	assert.Contains(t, r.String(), `start: "Yes please" -> 1 (fuzzy)`)
	assert.Contains(t, r.String(), "Dead ends (2):")
}

func TestAudit_DefaultTable(t *testing.T) {
	def, err := flows.DefaultLoader().Load(context.Background())
	require.NoError(t, err)
	g, err := graph.Build(def)
	require.NoError(t, err)

	r := Audit(g)
	assert.Empty(t, r.Unreachable)
	assert.Empty(t, r.DeadEnds)
	assert.Empty(t, r.DeadSuggestions, "every offered answer of the shipped script must lead somewhere")
}

func TestReport_Clean(t *testing.T) {
	assert.Equal(t, "no issues found\n", Report{}.String())
}
