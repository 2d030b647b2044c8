package rabbitmq

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"
)

// Topology describes the queues the orchestrator depends on. Both queues are
// durable; rejected messages route to the dead-letter exchange so they can be
// inspected instead of silently lost.
type Topology struct {
	InboundQueue       string
	OutboundQueue      string
	DeadLetterExchange string
	DeadLetterQueue    string
}

// Manager maintains a single AMQP connection and helps declare topology.
type Manager struct {
	url    string
	conn   *amqp.Connection
	logger *slog.Logger
	mu     sync.RWMutex
}

func NewManager(url string, logger *slog.Logger) (*Manager, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return &Manager{
		url:    url,
		conn:   conn,
		logger: logger,
	}, nil
}

func (m *Manager) Connection() *amqp.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.conn
}

// Reconnect replaces the current connection with a fresh dial. The old
// connection is closed first; channel owners must reopen their channels
// afterwards.
func (m *Manager) Reconnect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	conn, err := amqp.Dial(m.url)
	if err != nil {
		return err
	}
	m.conn = conn
	m.logger.Info("rabbitmq connection re-established")
	return nil
}

func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.conn == nil {
		return nil
	}
	err := m.conn.Close()
	m.conn = nil
	return err
}

// Declare ensures the exchanges and queues exist before the consumer starts.
// Declarations are idempotent on the broker side, so running this on every
// boot is safe.
func (m *Manager) Declare(t Topology) error {
	ch, err := m.Connection().Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if t.DeadLetterExchange != "" {
		if err := ch.ExchangeDeclare(
			t.DeadLetterExchange,
			"fanout",
			true,
			false,
			false,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("declare dead-letter exchange: %w", err)
		}

		if t.DeadLetterQueue != "" {
			if _, err := ch.QueueDeclare(
				t.DeadLetterQueue,
				true,
				false,
				false,
				false,
				nil,
			); err != nil {
				return fmt.Errorf("declare dead-letter queue: %w", err)
			}
			if err := ch.QueueBind(
				t.DeadLetterQueue,
				"",
				t.DeadLetterExchange,
				false,
				nil,
			); err != nil {
				return fmt.Errorf("bind dead-letter queue: %w", err)
			}
		}
	}

	args := amqp.Table{}
	if t.DeadLetterExchange != "" {
		args["x-dead-letter-exchange"] = t.DeadLetterExchange
	}

	for _, queue := range []string{t.InboundQueue, t.OutboundQueue} {
		if queue == "" {
			continue
		}
		if _, err := ch.QueueDeclare(
			queue,
			true,
			false,
			false,
			false,
			args,
		); err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}
	}

	m.logger.Info("rabbitmq topology declared",
		slog.String("inbound", t.InboundQueue),
		slog.String("outbound", t.OutboundQueue),
		slog.String("dlx", t.DeadLetterExchange),
	)
	return nil
}
