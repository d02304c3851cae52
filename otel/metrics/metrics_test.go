package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestRecordPublishAndHTTP(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	require.NoError(t, Init("queue-console"))

	ctx := context.Background()
	RecordPublish(ctx, "/publicar-canal", "canal1", 10*time.Millisecond, true)
	RecordPublish(ctx, "/publicar", "", 5*time.Millisecond, false)
	RecordHTTPRequest(ctx, "GET", "/stats", 200, time.Millisecond, 0, 64)
	IncrementInFlightRequests(ctx, "GET", "/stats")
	DecrementInFlightRequests(ctx, "GET", "/stats")

	got := collect(t, reader)

	published, ok := got["queue_messages_published_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range published.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	requests, ok := got["http_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, requests.DataPoints, 1)
	assert.Equal(t, int64(1), requests.DataPoints[0].Value)

	assert.Contains(t, got, "go_goroutines")
}

func TestRecordingBeforeInitIsNoop(t *testing.T) {
	previous := current.Swap(nil)
	t.Cleanup(func() { current.Store(previous) })

	assert.NotPanics(t, func() {
		ctx := context.Background()
		RecordPublish(ctx, "/publicar", "", time.Millisecond, true)
		RecordHTTPRequest(ctx, "POST", "/publicar", 200, time.Millisecond, 10, 10)
		IncrementInFlightRequests(ctx, "POST", "/publicar")
		DecrementInFlightRequests(ctx, "POST", "/publicar")
	})
}
