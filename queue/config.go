package queue

import "time"

type ConnectionConfig struct {
	// URI: The RabbitMQ connection URI, which includes the address, port, and authentication credentials if necessary
	URI string
	// QueueConfig: The configuration of the queue declared right after connecting
	QueueConfig *Config
}

type Config struct {
	// Name: The name of the queue to be declared and used for message exchange.
	Name string
	// Type: classic or quorum. Empty leaves the broker default.
	Type QueueType
	// Durable: Indicates whether the queue should survive a broker restart.
	Durable bool
	// AutoDelete: Indicates whether the queue should be automatically deleted when it is no longer in use.
	AutoDelete bool
	// Exclusive: Indicates whether the queue should be exclusive to the connection that declares it.
	Exclusive bool
	// NoWait: Indicates whether the queue declaration should not wait for a response from the server.
	NoWait bool
	// Args: Additional arguments used when declaring the queue (x-message-ttl, x-max-length, ...).
	Args map[string]interface{}
}

type PublishConfig struct {
	// Exchange: The name of the exchange to be used for message publishing. Empty is the default exchange.
	Exchange string
	// RoutingKey: The routing key to be used for message publishing. With the default
	// exchange this is the queue name.
	RoutingKey string
	// ContentType: The content type of the message to be published.
	ContentType string
	// DeliveryMode: amqp.Transient (1) or amqp.Persistent (2).
	DeliveryMode uint8
	// Confirm: Wait for the broker to confirm each message before Publish returns.
	Confirm bool
}

type ConsumeWithRetryConfig struct {
	// Queue: The name of the queue from which to consume messages.
	Queue string
	// Consumer: The consumer tag.
	Consumer string
	// Exclusive: Whether the consumer should be exclusive to the connection that declares it.
	Exclusive bool
	// NoLocal: Whether messages published on the same connection should be ignored.
	NoLocal bool
	// NoWait: Whether the consumer should not wait for a response from the server.
	NoWait bool
	// Prefetch: Maximum number of unacknowledged deliveries held by the consumer.
	Prefetch int
	// MaxRetries: maximum number of retry attempts for a message before it is
	// moved to the Dead Letter Queue (DLQ).
	MaxRetries int
	// RetryDelay: how long a failed message waits in the retry queue before it
	// is dead-lettered back to Queue.
	RetryDelay time.Duration
	// Args: Additional arguments to be used when consuming from the queue.
	Args map[string]interface{}
}

func (c ConsumeWithRetryConfig) messageTTL() int64 {
	return c.RetryDelay.Milliseconds()
}

// See https://www.rabbitmq.com/tutorials/amqp-concepts-tutorial.html
