package app

import (
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/dshills/rewind/internal/document"
	"github.com/dshills/rewind/internal/engine/history"
	"github.com/dshills/rewind/internal/event"
)

// Metrics holds Prometheus metrics for a session. Each session owns its
// registry so several sessions can coexist in one process.
//
// Metrics (prefixed with the configured namespace):
//   - history_notifications_total{kind} - notifications posted by the history
//   - history_failures_total{kind} - execution and replay failures
//   - history_past_commands - undoable commands
//   - history_future_commands - redoable commands
//   - history_capacity - configured capacity
type Metrics struct {
	registry *prometheus.Registry

	NotificationsTotal *prometheus.CounterVec
	FailuresTotal      *prometheus.CounterVec
	PastCommands       prometheus.Gauge
	FutureCommands     prometheus.Gauge
	Capacity           prometheus.Gauge

	sub *event.Subscription
}

// NewMetrics creates and registers the metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "notifications_total",
				Help:      "Total number of history notifications",
			},
			[]string{"kind"}, // "changed", "executed" or "replayed"
		),
		FailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "history",
				Name:      "failures_total",
				Help:      "Total number of failed history operations",
			},
			[]string{"kind"}, // "execution" or "replay"
		),
		PastCommands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "past_commands",
			Help:      "Number of undoable commands",
		}),
		FutureCommands: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "future_commands",
			Help:      "Number of redoable commands",
		}),
		Capacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "capacity",
			Help:      "Configured history capacity",
		}),
	}
	m.registry.MustRegister(m.NotificationsTotal, m.FailuresTotal, m.PastCommands, m.FutureCommands, m.Capacity)
	return m
}

// Registry returns the registry holding the metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Attach subscribes the metrics to history notifications on bus.
func (m *Metrics) Attach(bus event.Bus) error {
	sub, err := history.Subscribe(bus, history.TopicAll, m.observe, event.WithPriority(event.PriorityLow))
	if err != nil {
		return err
	}
	m.sub = sub
	return nil
}

// Detach removes the bus subscription.
func (m *Metrics) Detach(bus event.Bus) {
	if m.sub != nil {
		_ = bus.Unsubscribe(m.sub)
		m.sub = nil
	}
}

func (m *Metrics) observe(n history.Notification[document.Command]) {
	m.NotificationsTotal.WithLabelValues(n.Kind.String()).Inc()
	m.PastCommands.Set(float64(n.History.PastCount()))
	m.FutureCommands.Set(float64(n.History.FutureCount()))
	m.Capacity.Set(float64(n.History.Capacity()))
}

// ObserveError counts a failed history operation.
func (m *Metrics) ObserveError(err error) {
	switch {
	case errors.Is(err, history.ErrReplayFailed):
		m.FailuresTotal.WithLabelValues("replay").Inc()
	case errors.Is(err, history.ErrExecutionFailed):
		m.FailuresTotal.WithLabelValues("execution").Inc()
	}
}

// WriteText writes the metrics in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
