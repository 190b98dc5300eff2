package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaunb-optile/trustly-client-go/pkg/metrics"
)

func TestMetricsRecord(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegistry(reg)

	m.RecordSigned("Deposit", 0.001)
	m.RecordSigned("Deposit", 0.002)
	m.RecordSigned("Refund", 0.001)
	m.RecordSigningError("Refund")
	m.RecordVerified("Deposit")
	m.RecordRejected("Deposit", "signature")
	m.RecordRejected("Deposit", "uuid_mismatch")
	m.RecordNotification("credit", nil)
	m.RecordNotification("credit", errors.New("bad signature"))
	m.RecordKeyLoad("private", nil)
	m.RecordKeyLoad("public", errors.New("missing"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsSigned.WithLabelValues("Deposit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsSigned.WithLabelValues("Refund")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SigningErrors.WithLabelValues("Refund")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesVerified.WithLabelValues("Deposit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesRejected.WithLabelValues("Deposit", "signature")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResponsesRejected.WithLabelValues("Deposit", "uuid_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("credit", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("credit", metrics.OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyLoads.WithLabelValues("private", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.KeyLoads.WithLabelValues("public", metrics.OutcomeFailure)))

	count, err := testutil.GatherAndCount(reg, "trustly_sign_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMetricsNil(t *testing.T) {
	t.Parallel()

	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.RecordSigned("Deposit", 0.1)
		m.RecordSigningError("Deposit")
		m.RecordVerified("Deposit")
		m.RecordRejected("Deposit", "signature")
		m.RecordNotification("credit", nil)
		m.RecordKeyLoad("private", nil)
	})
}

func TestMetricsDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	metrics.NewMetricsWithRegistry(reg)
	assert.Panics(t, func() { metrics.NewMetricsWithRegistry(reg) })
}
