package log_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/shaunb-optile/trustly-client-go/pkg/log"
)

type recordedEvent struct {
	name  string
	kv    []any
	isErr bool
}

type mockRecorder struct {
	events []recordedEvent
}

func (m *mockRecorder) TraceID() string { return "trace-1" }
func (m *mockRecorder) SpanID() string { return "span-1" }

func (m *mockRecorder) RecordEvent(name string, kv ...any) {
	m.events = append(m.events, recordedEvent{name: name, kv: kv})
}

func (m *mockRecorder) RecordError(name string, kv ...any) {
	m.events = append(m.events, recordedEvent{name: name, kv: kv, isErr: true})
}

func TestSpanLogger(t *testing.T) {
	sink := &captureSyncer{}
	base := log.NewZapLogger(log.Config{Format: "json", Level: log.LevelDebug, Output: "stdout"}, sink).WithName("verifier")
	rec := &mockRecorder{}
	lg := log.NewSpanLogger(base, rec)

	lg.Info("response verified", "method", "Deposit")
	require.Len(t, rec.events, 1)
	assert.False(t, rec.events[0].isErr)
	assert.Equal(t, []any{"level", "info", "component", "verifier", "method", "Deposit"}, rec.events[0].kv)

	entry := sink.last(t)
	assert.Equal(t, "trace-1", entry["traceId"])
	assert.Equal(t, "span-1", entry["spanId"])
	assert.Equal(t, "Deposit", entry["method"])

	lg.Error("response rejected", "reason", "signature")
	require.Len(t, rec.events, 2)
	assert.True(t, rec.events[1].isErr)

	assert.Equal(t, "verifier.child", lg.WithName("child").Name())
}

func TestContextLogger(t *testing.T) {
	t.Run("missing logger yields noop", func(t *testing.T) {
		assert.Equal(t, "noop", log.FromContext(context.Background()).Name())
	})

	t.Run("without span", func(t *testing.T) {
		lg := log.NewZapLogger(log.Config{Format: "json", Output: "stdout"}, &captureSyncer{}).WithName("cli")
		ctx := log.SetContextLogger(context.Background(), lg)

		_, isSpan := log.FromContext(ctx).(log.SpanLogger)
		assert.False(t, isSpan)
		assert.Equal(t, "cli", log.FromContext(ctx).Name())
	})

	t.Run("with span", func(t *testing.T) {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
			SpanID:     trace.SpanID{1, 2, 3, 4, 5, 6, 7, 8},
			TraceFlags: trace.FlagsSampled,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), sc)

		sink := &captureSyncer{}
		lg := log.NewZapLogger(log.Config{Format: "json", Output: "stdout"}, sink)
		ctx = log.SetContextLogger(ctx, lg)

		_, isSpan := log.FromContext(ctx).(log.SpanLogger)
		require.True(t, isSpan)

		log.FromContext(ctx).Info("traced")
		assert.Equal(t, sc.TraceID().String(), sink.last(t)["traceId"])
	})

	t.Run("nil logger", func(t *testing.T) {
		ctx := log.SetContextLogger(context.Background(), nil)
		assert.Equal(t, "noop", log.FromContext(ctx).Name())
	})
}
