// Package metrics holds the Prometheus collectors exported by the backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Metrics groups the application collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	ReminderTicks    *prometheus.CounterVec
	RemindersEmitted prometheus.Counter
	NotifyFailures   prometheus.Counter
	EventSubscribers prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tosticker_commands_total",
			Help: "Total number of commands handled, by command and outcome",
		}, []string{"command", "outcome"}),

		CommandDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tosticker_command_duration_seconds",
			Help:    "Command latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"command"}),

		ReminderTicks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tosticker_reminder_ticks_total",
			Help: "Reminder checks run, by outcome",
		}, []string{"outcome"}),

		RemindersEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tosticker_reminders_emitted_total",
			Help: "Reminder events delivered to the notifier",
		}),

		NotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "tosticker_notify_failures_total",
			Help: "Reminder events the notifier rejected",
		}),

		EventSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tosticker_event_subscribers",
			Help: "Number of connected event stream clients",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// ObserveCommand records one handled command.
func (m *Metrics) ObserveCommand(command string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(command, outcome(err)).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
}

// ObserveTick records one reminder check and the number of events it emitted.
func (m *Metrics) ObserveTick(emitted int, err error) {
	if m == nil {
		return
	}
	m.ReminderTicks.WithLabelValues(outcome(err)).Inc()
	m.RemindersEmitted.Add(float64(emitted))
}

// NotifyFailed records a rejected reminder event.
func (m *Metrics) NotifyFailed() {
	if m == nil {
		return
	}
	m.NotifyFailures.Inc()
}

// SetSubscribers records the number of connected event clients.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}
	m.EventSubscribers.Set(float64(n))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeOK
}
