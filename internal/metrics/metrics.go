// Package metrics exposes the bot's Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns the bot's collectors. All recording methods are safe to call
// on a nil *Manager.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	updates        *prometheus.CounterVec
	aiReplies      *prometheus.CounterVec
	aiErrors       prometheus.Counter
	aiLatency      prometheus.Histogram
	eventsCreated  prometheus.Counter
	eventsCanceled prometheus.Counter
	pollsClosed    prometheus.Counter
	jobRuns        *prometheus.CounterVec
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace overrides the metric namespace.
func WithNamespace(ns string) Option {
	return func(m *Manager) { m.namespace = ns }
}

// WithRegistry registers collectors on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

func NewManager(opts ...Option) *Manager {
	m := &Manager{namespace: "skibidi"}
	for _, opt := range opts {
		opt(m)
	}
	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.updates = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "updates_total",
		Help:      "Telegram updates received by kind",
	}, []string{"kind"})

	m.aiReplies = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "replies_total",
		Help:      "Model replies by inferred command",
	}, []string{"command"})

	m.aiErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "errors_total",
		Help:      "Failed model completions",
	})

	m.aiLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "ai",
		Name:      "completion_seconds",
		Help:      "Model completion latency in seconds",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
	})

	m.eventsCreated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "event",
		Name:      "created_total",
		Help:      "Event polls posted",
	})

	m.eventsCanceled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "event",
		Name:      "cancelled_total",
		Help:      "Event conversations cancelled by their creator",
	})

	m.pollsClosed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "event",
		Name:      "polls_closed_total",
		Help:      "Event polls closed by the background job",
	})

	m.jobRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "jobs",
		Name:      "runs_total",
		Help:      "Scheduled job runs by job id and outcome",
	}, []string{"job", "outcome"})
}

// Registry returns the registry the collectors live on.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) IncUpdate(kind string) {
	if m == nil {
		return
	}
	m.updates.WithLabelValues(kind).Inc()
}

func (m *Manager) IncAIReply(command string) {
	if m == nil {
		return
	}
	m.aiReplies.WithLabelValues(command).Inc()
}

func (m *Manager) IncAIError() {
	if m == nil {
		return
	}
	m.aiErrors.Inc()
}

func (m *Manager) ObserveAILatency(seconds float64) {
	if m == nil {
		return
	}
	m.aiLatency.Observe(seconds)
}

func (m *Manager) IncEventCreated() {
	if m == nil {
		return
	}
	m.eventsCreated.Inc()
}

func (m *Manager) IncEventCancelled() {
	if m == nil {
		return
	}
	m.eventsCanceled.Inc()
}

func (m *Manager) IncPollClosed() {
	if m == nil {
		return
	}
	m.pollsClosed.Inc()
}

func (m *Manager) IncJobRun(job, outcome string) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
}
