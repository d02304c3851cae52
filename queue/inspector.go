package queue

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/octabyte/bm-queue-console/enums"
)

// ErrQueueNotFound is returned when the inspected queue does not exist on the broker.
var ErrQueueNotFound = errors.New("queue not found")

type QueueState struct {
	Name      string
	Messages  int
	Consumers int
	State     enums.QueueState
}

type Inspector interface {
	Inspect(ctx context.Context) (QueueState, error)
}

type inspector struct {
	conn *amqp.Connection
	name string
}

func NewInspector(conn *amqp.Connection, queueName string) Inspector {
	return &inspector{conn: conn, name: queueName}
}

// Inspect reads the queue counters with a passive declare. A passive declare
// on a missing queue closes the channel, so every call uses a fresh one.
func (i *inspector) Inspect(ctx context.Context) (QueueState, error) {
	if err := ctx.Err(); err != nil {
		return QueueState{}, err
	}

	if i.conn.IsClosed() {
		return QueueState{Name: i.name, State: enums.QueueStateInactive}, amqp.ErrClosed
	}

	ch, err := i.conn.Channel()
	if err != nil {
		return QueueState{}, fmt.Errorf("failed to open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	q, err := ch.QueueDeclarePassive(i.name, false, false, false, false, nil)
	if err != nil {
		var amqpErr *amqp.Error
		if errors.As(err, &amqpErr) && amqpErr.Code == amqp.NotFound {
			return QueueState{Name: i.name, State: enums.QueueStateInactive}, fmt.Errorf("%w: %s", ErrQueueNotFound, i.name)
		}
		return QueueState{}, fmt.Errorf("failed to inspect queue %s: %w", i.name, err)
	}

	return QueueState{
		Name:      q.Name,
		Messages:  q.Messages,
		Consumers: q.Consumers,
		State:     enums.QueueStateActive,
	}, nil
}
