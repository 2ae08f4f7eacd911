package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors for provider calls and cards.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec   // labels: provider, operation={resolve,day}, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: provider, operation
	Cards            *prometheus.CounterVec   // labels: status={loaded,failed}
	UpstreamUp       prometheus.Gauge
}

func newMetrics() *Metrics {
	return &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whether",
			Name:      "provider_requests_total",
			Help:      "Weather provider requests by operation and outcome.",
		}, []string{"provider", "operation", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "whether",
			Name:      "provider_request_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"provider", "operation"}),
		Cards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "whether",
			Name:      "forecast_cards_total",
			Help:      "Forecast cards built, by status.",
		}, []string{"status"}),
		UpstreamUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "whether",
			Name:      "upstream_up",
			Help:      "1 when the last upstream probe succeeded, 0 otherwise.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.Cards,
		m.UpstreamUp,
	)
	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build as
// many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// ObserveProvider records one provider call. Safe on a nil receiver.
func (m *Metrics) ObserveProvider(provider, operation string, err error, took time.Duration) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.ProviderRequests.WithLabelValues(provider, operation, outcome).Inc()
	m.ProviderDuration.WithLabelValues(provider, operation).Observe(took.Seconds())
}

// ObserveCard counts a built card. Safe on a nil receiver.
func (m *Metrics) ObserveCard(status string) {
	if m == nil {
		return
	}
	m.Cards.WithLabelValues(status).Inc()
}

// SetUpstreamUp records the probe result. Safe on a nil receiver.
func (m *Metrics) SetUpstreamUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.UpstreamUp.Set(1)
		return
	}
	m.UpstreamUp.Set(0)
}
