package consumer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/octabyte/bm-queue-console/queue"
)

type sentMail struct {
	to, subject, body string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type fakeCounter struct {
	redis.Cmdable
	counts map[string]int64
	err    error
}

func (f *fakeCounter) Incr(_ context.Context, key string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	f.counts[key]++
	return redis.NewIntResult(f.counts[key], nil)
}

func newTestProcessor(t *testing.T, sender *fakeSender, cache redis.Cmdable) (*Processor, *Metrics) {
	t.Helper()
	metrics, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return NewProcessor(sender, Config{QueueName: "emails", Subject: "Mensagem da Fila"}, cache, metrics), metrics
}

func TestHandleSendsEmail(t *testing.T) {
	sender := &fakeSender{}
	p, metrics := newTestProcessor(t, sender, nil)

	err := p.Handle(context.Background(), queue.Delivery{
		MessageID: "m-1",
		Body:      []byte(`{"email":"ana@example.com","msg":"<b>oi</b>"}`),
	})
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "ana@example.com", sender.sent[0].to)
	assert.Equal(t, "Mensagem da Fila", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].body, "&lt;b&gt;oi&lt;/b&gt;")
	assert.Equal(t, int64(1), p.Processed())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.messagesProcessed.WithLabelValues(StatusSent)))
}

func TestHandleRejectsInvalidBody(t *testing.T) {
	sender := &fakeSender{}
	p, metrics := newTestProcessor(t, sender, nil)

	err := p.Handle(context.Background(), queue.Delivery{Body: []byte("not json")})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	err = p.Handle(context.Background(), queue.Delivery{Body: []byte(`{"msg":"sem destino"}`)})
	assert.ErrorIs(t, err, ErrInvalidMessage)

	assert.Empty(t, sender.sent)
	assert.Zero(t, p.Processed())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.messagesProcessed.WithLabelValues(StatusInvalid)))
}

func TestHandleReturnsSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	p, metrics := newTestProcessor(t, sender, nil)

	err := p.Handle(context.Background(), queue.Delivery{
		RetryCount: 1,
		Body:       []byte(`{"email":"ana@example.com","msg":"oi"}`),
	})
	assert.EqualError(t, err, "smtp down")
	assert.Zero(t, p.Processed())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.messagesProcessed.WithLabelValues(StatusFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.retries))
}

func TestHandleCountsInRedis(t *testing.T) {
	cache := &fakeCounter{counts: map[string]int64{"queue-console:processed:emails": 41}}
	p, _ := newTestProcessor(t, &fakeSender{}, cache)

	require.NoError(t, p.Handle(context.Background(), queue.Delivery{
		Body: []byte(`{"email":"ana@example.com","msg":"oi"}`),
	}))
	assert.Equal(t, int64(42), cache.counts["queue-console:processed:emails"])
	assert.Equal(t, int64(1), p.Processed())
}

func TestHandleIgnoresCounterFailure(t *testing.T) {
	cache := &fakeCounter{counts: map[string]int64{}, err: errors.New("connection refused")}
	p, _ := newTestProcessor(t, &fakeSender{}, cache)

	require.NoError(t, p.Handle(context.Background(), queue.Delivery{
		Body: []byte(`{"email":"ana@example.com","msg":"oi"}`),
	}))
	assert.Equal(t, int64(1), p.Processed())
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "curta", Preview("curta"))

	long := strings.Repeat("á", 60)
	got := Preview(long)
	assert.Equal(t, strings.Repeat("á", 50)+"...", got)
}

func TestNewMetricsRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestMetricsServerRoutes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)
	metrics.observe(StatusSent, 0)

	srv := NewMetricsServer("127.0.0.1:0", reg)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `queue_console_consumer_messages_processed_total{status="sent"} 1`)
}

func TestHandleJoinsDeliveryTrace(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})

	core, logs := observer.New(zap.InfoLevel)
	t.Cleanup(zap.ReplaceGlobals(zap.New(core)))

	sender := &fakeSender{err: errors.New("smtp: 421 try later")}
	p, _ := newTestProcessor(t, sender, nil)

	ctx, parent := tp.Tracer("test").Start(context.Background(), "emails process")
	err := p.Handle(ctx, queue.Delivery{
		MessageID: "m-7",
		Body:      []byte(`{"email":"ana@example.com","msg":"oi"}`),
	})
	parent.End()
	require.Error(t, err)

	traceID := parent.SpanContext().TraceID().String()
	entries := logs.All()
	require.NotEmpty(t, entries)
	for _, entry := range entries {
		assert.Equal(t, traceID, entry.ContextMap()["trace_id"], entry.Message)
	}

	var send sdktrace.ReadOnlySpan
	for _, span := range recorder.Ended() {
		if span.Name() == "smtp send" {
			send = span
		}
	}
	require.NotNil(t, send)
	assert.Equal(t, parent.SpanContext().SpanID(), send.Parent().SpanID())
	assert.Equal(t, codes.Error, send.Status().Code)
}
