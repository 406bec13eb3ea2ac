package metrics_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/scriptflow/internal/metrics"
	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/aretw0/scriptflow/pkg/dsl"
	"github.com/aretw0/scriptflow/pkg/graph"
	"github.com/aretw0/scriptflow/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Hooks(t *testing.T) {
	b := dsl.New()
	b.Add("start").Ask("Hi").Answer("Yes", "1")
	b.Add("1").Ask("One")
	b.Add("2").Ask("Two")
	g, err := graph.Build(b.Definition())
	require.NoError(t, err)

	c := metrics.New()
	ctx := context.Background()
	s := session.New(g, session.WithHooks(c.Hooks()))

	s.Submit(ctx, "no")
	s.Submit(ctx, "yes")
	s.Submit(ctx, "anything")
	s.Reset(ctx)
	c.SessionStarted()

	body := scrape(t, c)
	assert.Contains(t, body, `scriptflow_answers_unresolved_total{node_id="start"} 1`)
	assert.Contains(t, body, `scriptflow_answers_resolved_total{match="fuzzy"} 1`)
	assert.Contains(t, body, `scriptflow_answers_resolved_total{match="sequential"} 1`)
	assert.Contains(t, body, `scriptflow_node_visits_total{node_id="1"} 1`)
	assert.Contains(t, body, `scriptflow_node_visits_total{node_id="2"} 1`)
	assert.Contains(t, body, `scriptflow_session_resets_total 1`)
	assert.Contains(t, body, `scriptflow_sessions_total{event="started"} 1`)

	families, err := c.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == "scriptflow_node_visits_total" {
			assert.Len(t, mf.GetMetric(), 2)
		}
	}
}

func scrape(t *testing.T, c *metrics.Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestCollector_Handler(t *testing.T) {
	c := metrics.New()
	c.Hooks().OnAnswerResolved(context.Background(), &domain.AnswerEvent{Match: domain.MatchExact})

	assert.Contains(t, scrape(t, c), `scriptflow_answers_resolved_total{match="exact"} 1`)
}
