package otel

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// InjectTraceHeaders writes the trace context of ctx into headers, allocating
// the map when nil.
func InjectTraceHeaders(ctx context.Context, headers map[string]string) map[string]string {
	if headers == nil {
		headers = make(map[string]string)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

// ExtractTraceHeaders returns ctx carrying the remote span found in headers,
// or ctx unchanged when there is none.
func ExtractTraceHeaders(ctx context.Context, headers map[string]string) context.Context {
	if len(headers) == 0 {
		return ctx
	}
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))
}

// StartConsumerSpan opens a consumer span parented on the trace carried in
// headers, so work done for a queued message joins the trace that published
// it.
func StartConsumerSpan(ctx context.Context, tracer, name string, headers map[string]string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx = ExtractTraceHeaders(ctx, headers)
	return otel.Tracer(tracer).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(attrs...),
	)
}

// WithTraceHeaders is a resty request middleware propagating the request
// context's trace.
func WithTraceHeaders(_ *resty.Client, req *resty.Request) error {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))
	return nil
}

// NewTracedRestyClient returns a resty client that forwards trace headers on
// every request.
func NewTracedRestyClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		OnBeforeRequest(WithTraceHeaders)
}
