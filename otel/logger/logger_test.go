package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestLogsCarryTraceFields(t *testing.T) {
	logs := observe(t)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()

	ctx, span := tp.Tracer("queue-console").Start(context.Background(), "publish")
	defer span.End()

	InfoCtx(ctx, "message published", zap.String("channel_id", "canal1"))

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "canal1", fields["channel_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), GetTraceID(ctx))
}

func TestLogsWithoutSpan(t *testing.T) {
	logs := observe(t)

	WarnCtx(context.Background(), "stats unavailable")
	DebugCtx(context.Background(), "cache miss")
	ErrorCtx(context.Background(), "publish failed", errors.New("channel closed"))
	ErrorCtx(context.Background(), "publish failed", nil)

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "channel closed", entries[2].ContextMap()["error"])
	assert.NotContains(t, entries[3].ContextMap(), "error")
	assert.NotContains(t, entries[0].ContextMap(), "trace_id")
	assert.Empty(t, GetTraceID(context.Background()))
}
