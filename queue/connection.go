package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Connection struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// NewConnection dials RabbitMQ, opens a channel and declares the configured queue.
func NewConnection(config ConnectionConfig) (*Connection, error) {
	if config.QueueConfig == nil || config.QueueConfig.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}

	conn, err := amqp.Dial(config.URI)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err = declare(ch, config.QueueConfig); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &Connection{conn, ch}, nil
}

// Channel opens an additional channel on the connection. Consumers and
// publishers each take their own channel so a channel-level error in one
// does not close the other.
func (c *Connection) Channel() (*amqp.Channel, error) {
	return c.Conn.Channel()
}

func (c *Connection) Close() error {
	return c.Conn.Close()
}

func declare(ch *amqp.Channel, cfg *Config) error {
	args := amqp.Table{}
	for k, v := range cfg.Args {
		args[k] = v
	}
	if cfg.Type != "" {
		args["x-queue-type"] = string(cfg.Type)
	}

	if _, err := ch.QueueDeclare(
		cfg.Name,
		cfg.Durable,
		cfg.AutoDelete,
		cfg.Exclusive,
		cfg.NoWait,
		args,
	); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", cfg.Name, err)
	}

	return nil
}
