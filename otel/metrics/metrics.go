package metrics

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	inFlight     metric.Int64UpDownCounter
	requestSize  metric.Int64Histogram
	responseSize metric.Int64Histogram

	published       metric.Int64Counter
	publishDuration metric.Float64Histogram
}

// current stays nil until Init succeeds, so recording before Init is a no-op.
var current atomic.Pointer[instruments]

// Init creates the console instruments on the global meter provider.
func Init(serviceName string) error {
	meter := otel.Meter(serviceName)

	var (
		inst instruments
		errs []error
	)
	check := func(name string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create %s: %w", name, err))
		}
	}

	var err error
	inst.requests, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Requests served by the console backend"),
		metric.WithUnit("{request}"))
	check("http_requests_total", err)

	inst.duration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("Request latency"),
		metric.WithUnit("s"))
	check("http_request_duration_seconds", err)

	inst.inFlight, err = meter.Int64UpDownCounter("http_requests_in_flight",
		metric.WithDescription("Requests currently being served"),
		metric.WithUnit("{request}"))
	check("http_requests_in_flight", err)

	inst.requestSize, err = meter.Int64Histogram("http_request_size_bytes",
		metric.WithUnit("By"))
	check("http_request_size_bytes", err)

	inst.responseSize, err = meter.Int64Histogram("http_response_size_bytes",
		metric.WithUnit("By"))
	check("http_response_size_bytes", err)

	inst.published, err = meter.Int64Counter("queue_messages_published_total",
		metric.WithDescription("Messages handed to the broker, by endpoint and outcome"),
		metric.WithUnit("{message}"))
	check("queue_messages_published_total", err)

	inst.publishDuration, err = meter.Float64Histogram("queue_publish_duration_seconds",
		metric.WithDescription("Time until the broker confirmed a publish"),
		metric.WithUnit("s"))
	check("queue_publish_duration_seconds", err)

	_, err = meter.Int64ObservableGauge("go_goroutines",
		metric.WithUnit("{goroutine}"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(runtime.NumGoroutine()))
			return nil
		}))
	check("go_goroutines", err)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	current.Store(&inst)
	return nil
}

func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, duration time.Duration, requestSize, responseSize int64) {
	inst := current.Load()
	if inst == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)

	inst.requests.Add(ctx, 1, attrs)
	inst.duration.Record(ctx, duration.Seconds(), attrs)
	if requestSize > 0 {
		inst.requestSize.Record(ctx, requestSize, attrs)
	}
	if responseSize > 0 {
		inst.responseSize.Record(ctx, responseSize, attrs)
	}
}

func IncrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, 1)
}

func DecrementInFlightRequests(ctx context.Context, method, route string) {
	addInFlight(ctx, method, route, -1)
}

func addInFlight(ctx context.Context, method, route string, delta int64) {
	inst := current.Load()
	if inst == nil {
		return
	}
	inst.inFlight.Add(ctx, delta, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
	))
}

// RecordPublish records one publish attempt. channel is empty for the plain
// endpoint.
func RecordPublish(ctx context.Context, endpoint, channel string, duration time.Duration, success bool) {
	inst := current.Load()
	if inst == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("channel", channel),
		attribute.Bool("success", success),
	)
	inst.published.Add(ctx, 1, attrs)
	inst.publishDuration.Record(ctx, duration.Seconds(), attrs)
}
