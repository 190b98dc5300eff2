// Package metrics exposes Prometheus counters for signing, verification and
// key loading. A nil *Metrics is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "trustly"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics contains all Prometheus metrics for the client
type Metrics struct {
	// Outbound requests
	RequestsSigned *prometheus.CounterVec
	SigningErrors  *prometheus.CounterVec

	// Inbound envelopes
	ResponsesVerified     *prometheus.CounterVec
	ResponsesRejected     *prometheus.CounterVec
	NotificationsReceived *prometheus.CounterVec

	// Key material
	KeyLoads *prometheus.CounterVec

	SignDuration prometheus.Histogram
}

// NewMetrics initializes and registers metrics with the default registerer
func NewMetrics() *Metrics {
	return NewMetricsWithRegistry(nil)
}

// NewMetricsWithRegistry initializes and registers metrics with a custom registry
func NewMetricsWithRegistry(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		RequestsSigned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_signed_total",
				Help:      "The total number of signed request envelopes by method",
			},
			[]string{"method"},
		),
		SigningErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signing_errors_total",
				Help:      "The total number of requests that could not be signed",
			},
			[]string{"method"},
		),
		ResponsesVerified: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_verified_total",
				Help:      "The total number of response envelopes whose signature verified",
			},
			[]string{"method"},
		),
		ResponsesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "responses_rejected_total",
				Help:      "The total number of rejected response envelopes by reason",
			},
			[]string{"method", "reason"},
		),
		NotificationsReceived: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_received_total",
				Help:      "The total number of inbound notifications by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		KeyLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "key_loads_total",
				Help:      "The total number of key loads from a source, cache hits excluded",
			},
			[]string{"kind", "outcome"},
		),
		SignDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sign_duration_seconds",
			Help:      "Time spent serializing and signing a request",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

func (m *Metrics) RecordSigned(method string, seconds float64) {
	if m == nil {
		return
	}
	m.RequestsSigned.WithLabelValues(method).Inc()
	m.SignDuration.Observe(seconds)
}

func (m *Metrics) RecordSigningError(method string) {
	if m == nil {
		return
	}
	m.SigningErrors.WithLabelValues(method).Inc()
}

func (m *Metrics) RecordVerified(method string) {
	if m == nil {
		return
	}
	m.ResponsesVerified.WithLabelValues(method).Inc()
}

// RecordRejected counts a response that was not trusted. reason is a short
// stable token such as "signature" or "uuid_mismatch".
func (m *Metrics) RecordRejected(method, reason string) {
	if m == nil {
		return
	}
	m.ResponsesRejected.WithLabelValues(method, reason).Inc()
}

func (m *Metrics) RecordNotification(method string, err error) {
	if m == nil {
		return
	}
	m.NotificationsReceived.WithLabelValues(method, outcome(err)).Inc()
}

func (m *Metrics) RecordKeyLoad(kind string, err error) {
	if m == nil {
		return
	}
	m.KeyLoads.WithLabelValues(kind, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
