package handoff

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/pkg/errors"
)

// publishTimeout bounds a single publish so a wedged broker cannot
// stall the caller indefinitely.
const publishTimeout = 5 * time.Second

// Event is the message consumed by the agent-routing side.
type Event struct {
	// RequestID correlates the event with the HTTP request that
	// triggered the escalation.
	RequestID string `json:"request_id"`

	// Note is the human-readable routing instruction.
	Note string `json:"note"`

	// RequestedAt is when the escalation was requested (UTC).
	RequestedAt time.Time `json:"requested_at"`
}

// Publisher sends handoff events through a channel pool.
type Publisher struct {
	pool      *ChannelPool
	queueName string
}

// NewPublisher wires a Publisher to an existing pool.
func NewPublisher(pool *ChannelPool, queueName string) *Publisher {
	return &Publisher{
		pool:      pool,
		queueName: queueName,
	}
}

// Publish sends one event to the handoff queue.
//
// Messages are persistent so a broker restart does not drop pending
// escalations.
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	ch, err := p.pool.getChannel()
	if err != nil {
		return errors.Wrap(err, "failed to get channel from pool")
	}
	defer p.pool.returnChannel(ch)

	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to marshal handoff event")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return errors.Wrap(err, "failed to publish handoff event")
	}

	return nil
}
