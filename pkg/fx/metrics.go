package fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures animator metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "mini").
	Namespace string

	// Subsystem is the metrics subsystem (default: "fx").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures animator metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "mini",
		Subsystem: "fx",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics counts fades by kind. A nil *Metrics records nothing.
type Metrics struct {
	started   *prometheus.CounterVec
	completed *prometheus.CounterVec
	skipped   *prometheus.CounterVec
	ticks     *prometheus.CounterVec
}

// NewMetrics registers the animator metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		}, []string{"kind"})
	}

	return &Metrics{
		started:   counter("animations_started_total", "Fades that started a timer"),
		completed: counter("animations_completed_total", "Fades that reached their terminal opacity"),
		skipped:   counter("animations_skipped_total", "Fades skipped because the element was already shown"),
		ticks:     counter("animation_ticks_total", "Timer ticks that changed an element's opacity"),
	}
}

func (m *Metrics) recordStarted(k Kind) {
	if m != nil {
		m.started.WithLabelValues(string(k)).Inc()
	}
}

func (m *Metrics) recordCompleted(k Kind) {
	if m != nil {
		m.completed.WithLabelValues(string(k)).Inc()
	}
}

func (m *Metrics) recordSkipped(k Kind) {
	if m != nil {
		m.skipped.WithLabelValues(string(k)).Inc()
	}
}

func (m *Metrics) recordTick(k Kind) {
	if m != nil {
		m.ticks.WithLabelValues(string(k)).Inc()
	}
}
