package providers

import (
	"guard-collective/gatekeeper/internal/metrics"
)

// requestRecorder counts outbound requests for one provider against the
// process registry. A nil recorder (tests, one-off tools) records nothing.
type requestRecorder struct {
	registry *metrics.MetricsRegistry
	provider string
}

func newRequestRecorder(registry *metrics.MetricsRegistry, provider string) *requestRecorder {
	if registry == nil {
		return nil
	}
	return &requestRecorder{registry: registry, provider: provider}
}

// observe records one completed request; failures are labelled with the
// classified error kind
func (r *requestRecorder) observe(err error) {
	if r == nil {
		return
	}
	r.registry.ProviderRequestsTotal.WithLabelValues(r.provider).Inc()
	if err == nil {
		return
	}
	kind := "unknown"
	if perr, ok := AsProviderError(err); ok {
		kind = perr.Kind.String()
	}
	r.registry.ProviderRequestErrors.WithLabelValues(r.provider, kind).Inc()
}
