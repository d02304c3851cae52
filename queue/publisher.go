package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Message is a single message handed to a Publisher.
type Message struct {
	Body []byte
	// ChannelID: optional channel the message is addressed to.
	ChannelID string
}

type Publisher interface {
	// Publish sends the message and returns the id assigned to it.
	Publish(ctx context.Context, msg Message) (string, error)
	Close() error
}

type publisher struct {
	mu     sync.Mutex
	ch     *amqp.Channel
	config PublishConfig
}

func NewPublisher(ch *amqp.Channel, config PublishConfig) (Publisher, error) {
	if config.Confirm {
		if err := ch.Confirm(false); err != nil {
			return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
		}
	}

	return &publisher{ch: ch, config: config}, nil
}

// Publish publishes a message to the configured exchange and routing key.
func (p *publisher) Publish(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()

	publishing := amqp.Publishing{
		ContentType:  p.config.ContentType,
		DeliveryMode: p.config.DeliveryMode,
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		Headers:      publishHeaders(ctx, msg.ChannelID),
		Body:         msg.Body,
	}

	// One publish at a time per channel.
	p.mu.Lock()
	confirmation, err := p.ch.PublishWithDeferredConfirmWithContext(
		ctx,
		p.config.Exchange,
		p.config.RoutingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
	p.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	if confirmation != nil {
		acked, err := confirmation.WaitContext(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to wait for publish confirmation: %w", err)
		}
		if !acked {
			return "", fmt.Errorf("broker rejected message %s", id)
		}
	}

	return id, nil
}

// Close closes the publisher, releasing the underlying channel.
func (p *publisher) Close() error {
	return p.ch.Close()
}
