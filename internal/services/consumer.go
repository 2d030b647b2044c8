package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"
)

// Handler is the routing entry point a consumer feeds deliveries into.
type Handler interface {
	Handle(ctx context.Context, body []byte) Outcome
}

// Consumer pulls events off the inbound queue with manual acknowledgment and
// hands each body to the handler. It owns its channel; deliveries are
// processed one at a time on this channel, which keeps the per-event
// persist-then-publish sequence atomic. Prefetch above one lets the broker
// keep messages in flight while one is being handled.
type Consumer struct {
	conn     *amqp.Connection
	queue    string
	prefetch int
	timeout  time.Duration
	handler  Handler
	logger   *slog.Logger
	done     chan struct{}
}

// NewConsumer creates a Consumer.
func NewConsumer(conn *amqp.Connection, queue string, prefetch int, timeout time.Duration, handler Handler, logger *slog.Logger) *Consumer {
	if prefetch < 1 {
		prefetch = 1
	}
	return &Consumer{
		conn:     conn,
		queue:    queue,
		prefetch: prefetch,
		timeout:  timeout,
		handler:  handler,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start subscribes to the queue and launches the consume loop. Cancelling ctx
// stops intake of new deliveries; the in-flight delivery finishes first.
func (c *Consumer) Start(ctx context.Context) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		ch.Close()
		return err
	}

	deliveries, err := ch.Consume(
		c.queue,
		"",    // consumer tag
		false, // autoAck: acknowledgment is always manual
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		return err
	}

	c.logger.Info("consumer started", slog.String("queue", c.queue), slog.Int("prefetch", c.prefetch))
	go c.run(ctx, ch, deliveries)
	return nil
}

// Done is closed once the consume loop has fully drained and the channel is
// released.
func (c *Consumer) Done() <-chan struct{} {
	return c.done
}

func (c *Consumer) run(ctx context.Context, ch *amqp.Channel, deliveries <-chan amqp.Delivery) {
	defer close(c.done)
	defer ch.Close()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer stopping", slog.String("queue", c.queue))
			return
		case delivery, ok := <-deliveries:
			if !ok {
				c.logger.Warn("delivery channel closed by broker", slog.String("queue", c.queue))
				return
			}
			if err := c.process(delivery); err != nil {
				// Failing to ack or nack means the channel is unusable; stop
				// so the process supervisor can restart the connection.
				c.logger.Error("acknowledgment failed, stopping consumer", slog.Any("error", err))
				return
			}
		}
	}
}

// process handles one delivery under the configured timeout. The timeout
// context is detached from the shutdown context so an in-flight event
// completes its persist+compose+publish sequence during graceful shutdown.
func (c *Consumer) process(delivery amqp.Delivery) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	switch c.handler.Handle(ctx, delivery.Body) {
	case OutcomeAck:
		return delivery.Ack(false)
	default:
		return delivery.Nack(false, false)
	}
}
