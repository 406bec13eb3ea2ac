// Package metrics exposes conversation activity as Prometheus collectors,
// fed by the engine's lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/scriptflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector groups the scriptflow metrics on one registry.
type Collector struct {
	registry *prometheus.Registry

	nodeVisits *prometheus.CounterVec
	answers    *prometheus.CounterVec
	unresolved *prometheus.CounterVec
	resets     prometheus.Counter
	sessions   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		nodeVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptflow_node_visits_total",
				Help: "Total number of node visits",
			},
			[]string{"node_id"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptflow_answers_resolved_total",
				Help: "Resolved answers by matching rule",
			},
			[]string{"match"},
		),
		unresolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptflow_answers_unresolved_total",
				Help: "Answers that matched no transition",
			},
			[]string{"node_id"},
		),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scriptflow_session_resets_total",
			Help: "Total number of session resets",
		}),
		sessions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptflow_sessions_total",
				Help: "Sessions started and ended",
			},
			[]string{"event"},
		),
	}
	c.registry.MustRegister(c.nodeVisits, c.answers, c.unresolved, c.resets, c.sessions)
	return c
}

// Registry exposes the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// Handler serves the metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks recording into the collectors.
func (c *Collector) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(_ context.Context, e *domain.NodeEvent) {
			c.nodeVisits.WithLabelValues(e.NodeID).Inc()
		},
		OnAnswerResolved: func(_ context.Context, e *domain.AnswerEvent) {
			c.answers.WithLabelValues(string(e.Match)).Inc()
		},
		OnAnswerUnresolved: func(_ context.Context, e *domain.AnswerEvent) {
			c.unresolved.WithLabelValues(e.NodeID).Inc()
		},
		OnReset: func(_ context.Context, _ *domain.NodeEvent) {
			c.resets.Inc()
		},
	}
}

// SessionStarted counts a new session.
func (c *Collector) SessionStarted() { c.sessions.WithLabelValues("started").Inc() }

// SessionEnded counts a discarded session.
func (c *Collector) SessionEnded() { c.sessions.WithLabelValues("ended").Inc() }
