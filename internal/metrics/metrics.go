package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for requests rejected by the local facade rate limiter
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of requests rejected by the rate limiter",
	})
}

// NewGatewayRetriesTotal returns a Prometheus counter for the number of retry attempts performed by the delivery API gateway
func NewGatewayRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gateway_retries_total",
		Help: "Total number of retry attempts performed by the delivery API gateway",
	})
}

// NewTransitionsTotal returns a Prometheus counter vector for session transition commands by operation and outcome
func NewTransitionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_transitions_total",
		Help: "Total number of session transition commands by operation and outcome",
	}, []string{"op", "outcome"})
}

// NewUploadFailuresTotal returns a Prometheus counter for failed proof-of-delivery uploads
func NewUploadFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "proof_upload_failures_total",
		Help: "Total number of failed proof-of-delivery uploads",
	})
}

// NewLocationDropsTotal returns a Prometheus counter for location samples that could not be obtained or reported
func NewLocationDropsTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "location_samples_dropped_total",
		Help: "Total number of location samples that could not be obtained or reported",
	})
}
