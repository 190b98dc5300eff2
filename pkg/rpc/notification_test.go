package rpc_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaunb-optile/trustly-client-go/pkg/canonical"
	"github.com/shaunb-optile/trustly-client-go/pkg/metrics"
	"github.com/shaunb-optile/trustly-client-go/pkg/rpc"
	"github.com/shaunb-optile/trustly-client-go/pkg/sign"
)

// notify builds a notification the way the API sends it.
func notify(t *testing.T, signer sign.Signer, method, id string, data map[string]any) []byte {
	t.Helper()

	payload, err := canonical.Serialize(method, id, data)
	require.NoError(t, err)
	sig, err := signer.Sign(payload)
	require.NoError(t, err)

	raw, err := json.Marshal(map[string]any{
		"method":  method,
		"version": "1.1",
		"params": map[string]any{
			"signature": sig.String(),
			"uuid":      id,
			"data":      data,
		},
	})
	require.NoError(t, err)
	return raw
}

func creditData() map[string]any {
	return map[string]any{
		"amount":         "902.50",
		"currency":       "EUR",
		"messageid":      "98348932",
		"orderid":        "87654567",
		"enduserid":      "32123",
		"notificationid": "9876543456",
		"timestamp":      "2010-01-20 14:42:04.675645+01",
		"attributes":     map[string]any{},
	}
}

func TestParseNotification(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegistry(reg)
	merchant, _ := newPair(t, func(cfg *rpc.BuilderConfig) { cfg.Metrics = m })
	apiKey := sign.NewMockSigner("api")
	id := uuid.NewString()

	raw := notify(t, apiKey, "credit", id, creditData())
	n, err := merchant.ParseNotification(raw)
	require.NoError(t, err)
	assert.Equal(t, rpc.CreditNotification, n.Method)
	assert.Equal(t, id, n.UUID)
	assert.Equal(t, "87654567", n.Data["orderid"])

	var nd rpc.NotificationData
	require.NoError(t, n.Decode(&nd))
	assert.Equal(t, "9876543456", nd.NotificationID)
	assert.Equal(t, "98348932", nd.MessageID)
	require.NotNil(t, nd.Amount)
	assert.Equal(t, "902.50", nd.Amount.String())

	t.Run("acknowledge", func(t *testing.T) {
		ack, err := merchant.BuildNotificationResponse(n, rpc.StatusOK)
		require.NoError(t, err)
		assert.False(t, ack.IsError())

		body, err := json.Marshal(ack)
		require.NoError(t, err)

		var wire struct {
			Version string `json:"version"`
			Result  struct {
				Signature string            `json:"signature"`
				UUID      string            `json:"uuid"`
				Method    string            `json:"method"`
				Data      map[string]string `json:"data"`
			} `json:"result"`
		}
		require.NoError(t, json.Unmarshal(body, &wire))
		assert.Equal(t, "1.1", wire.Version)
		assert.Equal(t, id, wire.Result.UUID)
		assert.Equal(t, "credit", wire.Result.Method)
		assert.Equal(t, map[string]string{"status": "OK"}, wire.Result.Data)

		sig, err := sign.DecodeSignature(wire.Result.Signature)
		require.NoError(t, err)
		ok, err := sign.NewMockSigner("merchant").Verify([]byte("credit"+id+"OK"), sig)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("failed status", func(t *testing.T) {
		ack, err := merchant.BuildNotificationResponse(n, rpc.StatusFailed)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"status": "FAILED"}, ack.Data())
	})

	t.Run("invalid status", func(t *testing.T) {
		_, err := merchant.BuildNotificationResponse(n, "MAYBE")
		assert.ErrorIs(t, err, rpc.ErrInvalidStatus)

		_, err = merchant.BuildNotificationResponse(nil, rpc.StatusOK)
		assert.Error(t, err)
	})

	t.Run("tampered", func(t *testing.T) {
		tampered := []byte(strings.Replace(string(raw), "902.50", "9902.50", 1))
		_, err := merchant.ParseNotification(tampered)
		var untrusted *rpc.UntrustedResponseError
		require.True(t, errors.As(err, &untrusted))
		assert.Equal(t, rpc.RejectSignature, untrusted.Reason)
	})

	t.Run("method swapped", func(t *testing.T) {
		swapped := []byte(strings.Replace(string(raw), `"method":"credit"`, `"method":"debit"`, 1))
		_, err := merchant.ParseNotification(swapped)
		var untrusted *rpc.UntrustedResponseError
		require.True(t, errors.As(err, &untrusted))
	})

	t.Run("not a notification", func(t *testing.T) {
		raw := notify(t, apiKey, "Deposit", id, creditData())
		_, err := merchant.ParseNotification(raw)
		var verr *sign.VerificationError
		require.True(t, errors.As(err, &verr))
		assert.ErrorIs(t, err, rpc.ErrUnknownMethod)
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := merchant.ParseNotification([]byte(`method=credit`))
		assert.ErrorIs(t, err, rpc.ErrMalformedEnvelope)
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("credit", metrics.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("credit", metrics.OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("debit", metrics.OutcomeFailure)))
}

func TestParseNotificationUnknownMethodLabel(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := metrics.NewMetricsWithRegistry(reg)
	merchant, _ := newPair(t, func(cfg *rpc.BuilderConfig) { cfg.Metrics = m })
	apiKey := sign.NewMockSigner("api")

	for _, method := range []string{"Deposit", "bogus-1", "bogus-2", "x" + uuid.NewString()} {
		_, err := merchant.ParseNotification(notify(t, apiKey, method, uuid.NewString(), creditData()))
		require.ErrorIs(t, err, rpc.ErrUnknownMethod)
	}

	assert.Equal(t, 1, testutil.CollectAndCount(m.NotificationsReceived))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.NotificationsReceived.WithLabelValues("unknown", metrics.OutcomeFailure)))
}
