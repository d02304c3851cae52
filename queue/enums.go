package queue

type QueueType string

const (
	QueueTypeClassic QueueType = "classic" // Default RabbitMQ queue
	QueueTypeQuorum  QueueType = "quorum"  // High availability, data safety
)

const (
	// HeaderChannelID carries the channel (canal) a message was published to.
	HeaderChannelID = "x-channel-id"
	// HeaderRetryCount counts redeliveries through the retry queue.
	HeaderRetryCount = "x-retry-count"

	retrySuffix = "-retry"
	dlqSuffix   = "-dlq"
)

// RetryQueueName returns the name of the delay queue paired with queueName.
func RetryQueueName(queueName string) string {
	return queueName + retrySuffix
}

// DLQName returns the name of the dead letter queue paired with queueName.
func DLQName(queueName string) string {
	return queueName + dlqSuffix
}
