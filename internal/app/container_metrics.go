package app

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"rider-delivery-agent/internal/metrics"
)

type metricsOut struct {
	dig.Out
	RateLimitExceeded prometheus.Counter `name:"rate_limit_exceeded_total"`
	GatewayRetries    prometheus.Counter `name:"gateway_retries_total"`
	UploadFailures    prometheus.Counter `name:"proof_upload_failures_total"`
	LocationDrops     prometheus.Counter `name:"location_drops_total"`
	Transitions       *prometheus.CounterVec
}

func newMetrics() metricsOut {
	out := metricsOut{
		RateLimitExceeded: metrics.NewRateLimitExceededTotal(),
		GatewayRetries:    metrics.NewGatewayRetriesTotal(),
		UploadFailures:    metrics.NewUploadFailuresTotal(),
		LocationDrops:     metrics.NewLocationDropsTotal(),
		Transitions:       metrics.NewTransitionsTotal(),
	}
	register(out.RateLimitExceeded, out.GatewayRetries, out.UploadFailures, out.LocationDrops, out.Transitions)
	return out
}

// register tolerates duplicates so containers can be rebuilt in one process.
func register(collectors ...prometheus.Collector) {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			var dup prometheus.AlreadyRegisteredError
			if !errors.As(err, &dup) {
				panic(err)
			}
		}
	}
}

func registerMetrics(container *dig.Container) error {
	return provideAll(container,
		newMetrics,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
	)
}
