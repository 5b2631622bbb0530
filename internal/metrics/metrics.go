package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Gatekeeper
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Provider Metrics
	ProviderRequestsTotal prometheus.CounterVec
	ProviderRequestErrors prometheus.CounterVec

	// Vetting Metrics
	VettingRunsTotal    prometheus.CounterVec
	VettingDenialsTotal prometheus.CounterVec
	VettingRunDuration  prometheus.HistogramVec

	// Invite Metrics
	InviteClaimsTotal prometheus.CounterVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gatekeeper_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gatekeeper_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Provider Metrics
		ProviderRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_provider_requests_total",
				Help: "Total outbound provider requests by provider",
			},
			[]string{"provider"},
		),
		ProviderRequestErrors: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_provider_request_errors_total",
				Help: "Provider request failures by provider and error kind",
			},
			[]string{"provider", "kind"},
		),

		// Vetting Metrics
		VettingRunsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_vetting_runs_total",
				Help: "Vetting pipeline runs by outcome",
			},
			[]string{"outcome"},
		),
		VettingDenialsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_vetting_denials_total",
				Help: "Vetting denials by the state that terminated the run",
			},
			[]string{"state"},
		),
		VettingRunDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gatekeeper_vetting_run_duration_seconds",
				Help:    "End-to-end vetting run duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"outcome"},
		),

		// Invite Metrics
		InviteClaimsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gatekeeper_invite_claims_total",
				Help: "Invite claims by result",
			},
			[]string{"result"},
		),
	}
}
