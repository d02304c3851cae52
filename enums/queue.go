package enums

// QueueState mirrors the lifecycle states reported on the stats endpoint.
type QueueState string

const (
	QueueStateActive   QueueState = "ACTIVE"
	QueueStateInactive QueueState = "INACTIVE"
)
