package echo

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/octabyte/bm-queue-console/otel/metrics"
)

// Middleware traces and measures every request skipper does not exclude, such
// as static assets. skipper may be nil.
func Middleware(serviceName string, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	baseMiddleware := otelecho.Middleware(serviceName)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		traced := baseMiddleware(annotate(next))

		return func(c echo.Context) error {
			if skipper != nil && skipper(c) {
				return next(c)
			}

			req := c.Request()
			route := c.Path()
			metrics.IncrementInFlightRequests(req.Context(), req.Method, route)
			start := time.Now()

			err := traced(c)

			metrics.DecrementInFlightRequests(req.Context(), req.Method, route)
			metrics.RecordHTTPRequest(req.Context(), req.Method, route, c.Response().Status,
				time.Since(start), req.ContentLength, c.Response().Size)

			return err
		}
	}
}

// annotate runs inside the otelecho span so the attributes land on it.
func annotate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		span := trace.SpanFromContext(c.Request().Context())
		if span.IsRecording() {
			span.SetAttributes(attribute.String("http.route", c.Path()))
			if channel := c.Get(ChannelKey); channel != nil {
				if s, ok := channel.(string); ok && s != "" {
					span.SetAttributes(attribute.String("queue.channel_id", s))
				}
			}
			if err != nil {
				span.SetAttributes(attribute.String("error.message", err.Error()))
			}
		}

		return err
	}
}

// ChannelKey is the echo context key handlers set to the publish channel.
const ChannelKey = "queueChannel"
