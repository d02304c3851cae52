package queue

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/octabyte/bm-queue-console/otel"
	"github.com/octabyte/bm-queue-console/utils/logger"
)

// ErrDeliveriesClosed is returned by Consume when the broker closes the delivery channel.
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// Delivery is what a Handler sees of a message.
type Delivery struct {
	MessageID  string
	ChannelID  string
	RetryCount int
	Body       []byte
}

type Handler func(ctx context.Context, d Delivery) error

type ConsumerWithRetry interface {
	// Consume blocks, handing deliveries to handler one at a time, until ctx
	// is cancelled or the broker closes the delivery channel.
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

type consumerWithRetry struct {
	ch         *amqp.Channel
	deliveryCh <-chan amqp.Delivery
	config     ConsumeWithRetryConfig
	log        *zap.Logger
}

func NewConsumerWithRetry(ch *amqp.Channel, config ConsumeWithRetryConfig) (ConsumerWithRetry, error) {
	_, err := ch.QueueDeclare(
		DLQName(config.Queue),
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-queue-type": string(QueueTypeQuorum),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare dlq: %w", err)
	}

	_, err = ch.QueueDeclare(
		RetryQueueName(config.Queue),
		true,
		false,
		false,
		false,
		amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-queue-type":              string(QueueTypeQuorum),
			"x-message-ttl":             config.messageTTL(),
			"x-dead-letter-routing-key": config.Queue,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare retry queue: %w", err)
	}

	if config.Prefetch > 0 {
		if err = ch.Qos(config.Prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("failed to set prefetch: %w", err)
		}
	}

	deliveryCh, err := ch.Consume(
		config.Queue,
		config.Consumer,
		false,
		config.Exclusive,
		config.NoLocal,
		config.NoWait,
		config.Args,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume %s: %w", config.Queue, err)
	}

	return &consumerWithRetry{
		ch:         ch,
		deliveryCh: deliveryCh,
		config:     config,
		log:        logger.Named("queue.consumer"),
	}, nil
}

func (c *consumerWithRetry) Consume(ctx context.Context, handler Handler) error {
	c.log.Info("Waiting for messages...", zap.String("queue", c.config.Queue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-c.deliveryCh:
			if !ok {
				return ErrDeliveriesClosed
			}
			c.handle(ctx, handler, msg)
		}
	}
}

func (c *consumerWithRetry) handle(ctx context.Context, handler Handler, msg amqp.Delivery) {
	retryCount := getRetryCount(msg.Headers)
	delivery := Delivery{
		MessageID:  msg.MessageId,
		ChannelID:  channelID(msg.Headers),
		RetryCount: retryCount,
		Body:       msg.Body,
	}

	ctx, span := otel.StartConsumerSpan(ctx, tracerName, c.config.Queue+" process", traceCarrier(msg.Headers),
		attribute.String("messaging.system", "rabbitmq"),
		attribute.String("messaging.destination.name", c.config.Queue),
		attribute.String("messaging.message.id", msg.MessageId),
		attribute.String("queue.channel_id", delivery.ChannelID),
		attribute.Int("queue.retry_count", retryCount),
	)
	defer span.End()

	if err := handler(ctx, delivery); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if retryCount < c.config.MaxRetries {
			c.log.Warn("message failed, scheduling retry",
				zap.String("message_id", msg.MessageId),
				zap.Int("retry", retryCount+1),
				zap.Duration("delay", c.config.RetryDelay),
				zap.Error(err),
			)
			c.retryMessage(ctx, msg, retryCount+1)
		} else {
			c.log.Error("message exhausted retries, moving to dlq",
				zap.String("message_id", msg.MessageId),
				zap.Error(err),
			)
			c.moveToDLQ(ctx, msg)
		}
		return
	}

	_ = msg.Ack(false)
}

func (c *consumerWithRetry) Close() error {
	return c.ch.Close()
}

func (c *consumerWithRetry) moveToDLQ(ctx context.Context, msg amqp.Delivery) {
	err := c.ch.PublishWithContext(ctx,
		"",
		DLQName(c.config.Queue),
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.MessageId,
			Timestamp:    msg.Timestamp,
			Body:         msg.Body,
			Headers:      msg.Headers,
		},
	)
	if err != nil {
		// Requeue rather than drop.
		c.log.Error("Failed to move message to DLQ", zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func (c *consumerWithRetry) retryMessage(ctx context.Context, msg amqp.Delivery, retryCount int) {
	err := c.ch.PublishWithContext(ctx,
		"",
		RetryQueueName(c.config.Queue),
		false,
		false,
		amqp.Publishing{
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.MessageId,
			Timestamp:    msg.Timestamp,
			Body:         msg.Body,
			Headers:      retryHeaders(msg.Headers, retryCount),
		},
	)
	if err != nil {
		c.log.Error("Failed to retry message", zap.Error(err))
		_ = msg.Nack(false, true)
		return
	}

	_ = msg.Ack(false)
}

func retryHeaders(headers amqp.Table, retryCount int) amqp.Table {
	out := amqp.Table{}
	for k, v := range headers {
		out[k] = v
	}
	out[HeaderRetryCount] = int32(retryCount)
	return out
}

func getRetryCount(headers amqp.Table) int {
	val, ok := headers[HeaderRetryCount]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		zap.L().Error("header x-retry-count type not supported", zap.Any("value", v))
		return 0
	}
}

func channelID(headers amqp.Table) string {
	if v, ok := headers[HeaderChannelID].(string); ok {
		return v
	}
	return ""
}
