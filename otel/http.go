package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// ClientCall describes one outgoing HTTP call to the console backend.
type ClientCall struct {
	Tracer    string
	Client    string
	Operation string
	Method    string
	BaseURL   string
	Path      string
	// Channel: target channel of a publish. Empty for the default queue.
	Channel string
}

// SpanName is "HTTP.<client>.<operation>".
func (c ClientCall) SpanName() string {
	return fmt.Sprintf("HTTP.%s.%s", c.Client, c.Operation)
}

// StartHTTPSpan opens a client span for call. The returned finish func must be
// called once with the response status (0 when no response arrived).
func StartHTTPSpan(ctx context.Context, call ClientCall) (context.Context, func(statusCode int, err error)) {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(call.Method),
		semconv.URLFull(call.BaseURL + call.Path),
		semconv.URLPath(call.Path),
	}
	if call.Channel != "" {
		attrs = append(attrs, attribute.String("queue.channel_id", call.Channel))
	}

	ctx, span := otel.Tracer(call.Tracer).Start(ctx, call.SpanName(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attrs...),
	)

	return ctx, func(statusCode int, err error) {
		defer span.End()

		if statusCode > 0 {
			span.SetAttributes(semconv.HTTPResponseStatusCodeKey.Int(statusCode))
		}

		switch {
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		case statusCode >= 400:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", statusCode))
		default:
			span.SetStatus(codes.Ok, "")
		}
	}
}
