// Package metrics exposes Prometheus instrumentation for API calls and
// session transitions made by this process.
package metrics

import (
	"io"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Registry holds every shopctl collector. It is separate from the default
// registry so that a dump only contains our own series.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// API call metrics
	RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopctl_api_requests_total",
			Help: "Total number of API requests by operation and outcome",
		},
		[]string{"operation", "status"},
	)

	RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shopctl_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Session metrics
	SessionTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopctl_session_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"event"},
	)

	// Token store metrics
	TokenStoreErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shopctl_token_store_errors_total",
			Help: "Total number of durable token store failures",
		},
		[]string{"backend", "op"},
	)
)

// StatusNetworkError labels requests that never got a response.
const StatusNetworkError = "network_error"

// ObserveRequest records one API call. A status of 0 means no response was received.
func ObserveRequest(operation string, status int, d time.Duration) {
	label := StatusNetworkError
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RequestsTotal.WithLabelValues(operation, label).Inc()
	RequestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SessionEvent records a session transition such as "login" or "restore_failed".
func SessionEvent(event string) {
	SessionTransitions.WithLabelValues(event).Inc()
}

// WriteText writes all collected series in the Prometheus text exposition format.
func WriteText(w io.Writer) error {
	families, err := Registry.Gather()
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
