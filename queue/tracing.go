package queue

import (
	"context"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/octabyte/bm-queue-console/otel"
)

const tracerName = "queue-console/queue"

// publishHeaders builds the headers of an outgoing message: the trace of ctx
// plus the channel id when set. Nil when there is nothing to carry.
func publishHeaders(ctx context.Context, channelID string) amqp.Table {
	carrier := otel.InjectTraceHeaders(ctx, nil)
	if channelID != "" {
		carrier[HeaderChannelID] = channelID
	}
	if len(carrier) == 0 {
		return nil
	}

	headers := make(amqp.Table, len(carrier))
	for k, v := range carrier {
		headers[k] = v
	}
	return headers
}

// traceCarrier keeps the string headers of a delivery, which is where the
// propagator wrote the trace context.
func traceCarrier(headers amqp.Table) map[string]string {
	carrier := make(map[string]string, len(headers))
	for k, v := range headers {
		if s, ok := v.(string); ok {
			carrier[k] = s
		}
	}
	return carrier
}
