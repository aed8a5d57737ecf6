// Package metrics exposes the service's Prometheus collectors and the
// standalone metrics HTTP server.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for fetch and delegate counters.
const (
	OutcomeOK          = "ok"
	OutcomeNotFound    = "not_found"
	OutcomeDenied      = "denied"
	OutcomeError       = "error"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
)

var (
	// FetchesTotal counts object fetch attempts by classified outcome.
	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgsource",
		Name:      "object_fetches_total",
		Help:      "Object fetch attempts by outcome.",
	}, []string{"outcome"})

	// FetchDuration observes the latency of object fetches.
	FetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "imgsource",
		Name:      "object_fetch_duration_seconds",
		Help:      "Latency of object fetches.",
		Buckets:   prometheus.DefBuckets,
	})

	// DelegateCallsTotal counts delegate lookups by outcome.
	DelegateCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "imgsource",
		Name:      "delegate_calls_total",
		Help:      "Delegate key lookups by outcome.",
	}, []string{"outcome"})

	// CachedFailureHits counts operations short-circuited by a source's
	// negative cache.
	CachedFailureHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "imgsource",
		Name:      "cached_failure_hits_total",
		Help:      "Operations answered from a source's memoized failure.",
	})
)

// ObserveFetch records one fetch attempt.
func ObserveFetch(outcome string, elapsed time.Duration) {
	FetchesTotal.WithLabelValues(outcome).Inc()
	FetchDuration.Observe(elapsed.Seconds())
}

// MetricsServer serves the Prometheus scrape endpoint on its own listener.
type MetricsServer struct {
	srv *http.Server
}

// New creates a metrics server listening on addr.
func New(addr string) (*MetricsServer, error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		srv: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
	}, nil
}

// ListenAndServe blocks serving scrapes until Shutdown.
func (m *MetricsServer) ListenAndServe() error {
	return m.srv.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (m *MetricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}
