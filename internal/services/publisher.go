package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/streadway/amqp"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
)

// ErrPublish marks a transport failure while publishing a notification.
var ErrPublish = errors.New("publish failed")

// ConnectionProvider yields the transport connection currently in use, so a
// reconnect upstream is picked up on the next channel open.
type ConnectionProvider interface {
	Connection() *amqp.Connection
}

// Publisher publishes composed notifications to RabbitMQ. It owns one channel
// and serializes all operations on it; an AMQP channel is not safe for
// concurrent use.
type Publisher struct {
	conns              ConnectionProvider
	deadLetterExchange string
	logger             *slog.Logger

	mu       sync.Mutex
	ch       *amqp.Channel
	declared map[string]struct{}
}

// NewPublisher creates a new Publisher.
func NewPublisher(conns ConnectionProvider, deadLetterExchange string, logger *slog.Logger) *Publisher {
	return &Publisher{
		conns:              conns,
		deadLetterExchange: deadLetterExchange,
		logger:             logger,
		declared:           make(map[string]struct{}),
	}
}

// Publish marshals the payload and sends it to the queue as a persistent
// message so it survives a broker restart until consumed. The destination
// queue is declared durable with the dead-letter argument before the first
// publish; the declaration is idempotent and cached per queue.
func (p *Publisher) Publish(ctx context.Context, queue string, payload *models.NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrPublish, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	if err := p.ensureQueue(ch, queue); err != nil {
		p.reset()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	err = ch.Publish(
		"",    // default exchange
		queue, // routing key
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		})
	if err != nil {
		p.reset()
		return fmt.Errorf("%w: %v", ErrPublish, err)
	}

	p.logger.Debug("notification published", slog.String("queue", queue), slog.String("subject", payload.Subject))
	return nil
}

// Close releases the publisher's channel. The connection belongs to the
// manager and is closed there.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil {
		return nil
	}
	err := p.ch.Close()
	p.ch = nil
	return err
}

func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil {
		return p.ch, nil
	}
	conn := p.conns.Connection()
	if conn == nil {
		return nil, errors.New("no transport connection")
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	p.ch = ch
	return ch, nil
}

func (p *Publisher) ensureQueue(ch *amqp.Channel, queue string) error {
	if _, ok := p.declared[queue]; ok {
		return nil
	}

	args := amqp.Table{}
	if p.deadLetterExchange != "" {
		args["x-dead-letter-exchange"] = p.deadLetterExchange
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		args,
	); err != nil {
		return err
	}

	p.declared[queue] = struct{}{}
	return nil
}

// reset drops the cached channel and declarations after a transport error so
// the next publish starts from a fresh channel.
func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	p.declared = make(map[string]struct{})
}
