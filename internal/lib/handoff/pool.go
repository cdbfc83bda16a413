// Package handoff publishes human-handoff events to a message queue.
//
// When a conversation is escalated to a human agent, downstream systems
// (the agent console, alerting) consume the event from RabbitMQ. The
// package keeps a small pool of AMQP channels so publishes do not open
// a channel per request.
package handoff

import (
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// ChannelPool holds one AMQP connection and a fixed set of channels.
//
// amqp091 channels are not safe for concurrent publishes, so each
// publish borrows a channel and returns it when done.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	mu        sync.Mutex
	size      int
	queueName string
	logger    *zerolog.Logger
}

// NewChannelPool dials the broker and pre-creates `size` channels.
//
// Each channel declares the queue on creation; QueueDeclare is
// idempotent so repeated declarations are harmless.
func NewChannelPool(amqpURL, queueName string, size int, logger *zerolog.Logger) (*ChannelPool, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to message broker")
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		size:      size,
		queueName: queueName,
		logger:    logger,
	}

	for i := 0; i < size; i++ {
		ch, err := pool.createChannel()
		if err != nil {
			pool.Close()
			return nil, errors.Wrapf(err, "failed to create channel %d", i)
		}
		pool.channels <- ch
	}

	logger.Info().
		Int("size", size).
		Str("queue", queueName).
		Msg("Created handoff channel pool")
	return pool, nil
}

// createChannel opens a channel and declares the handoff queue on it.
func (p *ChannelPool) createChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, err
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		ch.Close()
		return nil, errors.Wrap(err, "failed to declare queue")
	}

	return ch, nil
}

// getChannel borrows a channel from the pool.
//
// If the borrowed channel was closed by the broker, a fresh one is
// created in its place.
func (p *ChannelPool) getChannel() (*amqp.Channel, error) {
	select {
	case ch := <-p.channels:
		if ch.IsClosed() {
			return p.createChannel()
		}
		return ch, nil
	default:
		return nil, errors.New("no channels available in pool")
	}
}

// returnChannel puts a channel back. A full pool closes the surplus
// channel instead of blocking.
func (p *ChannelPool) returnChannel(ch *amqp.Channel) {
	if ch == nil || ch.IsClosed() {
		return
	}
	select {
	case p.channels <- ch:
	default:
		ch.Close()
	}
}

// Close shuts down all pooled channels and the underlying connection.
func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	close(p.channels)
	for ch := range p.channels {
		ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
	p.logger.Info().Msg("Closed handoff channel pool")
}
