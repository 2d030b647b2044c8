package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/repository"
	"github.com/Tourment0412/orquestador-solicitudes-micro/pkg/metrics"
)

// Outcome is the dispatcher's verdict on a delivery: acknowledge it or reject
// it without requeue (routing it to the dead-letter exchange).
type Outcome int

const (
	OutcomeAck Outcome = iota
	OutcomeReject
)

// EventStore is the persistence contract the dispatcher depends on.
type EventStore interface {
	Persist(ctx context.Context, record *repository.EventRecord) error
	FindByID(ctx context.Context, id string) (*repository.EventRecord, error)
}

// NotificationPublisher hands a composed notification to the transport.
type NotificationPublisher interface {
	Publish(ctx context.Context, queue string, payload *models.NotificationPayload) error
}

// DuplicateChecker is the optional Redis fast path for duplicate events.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, eventID string) (bool, error)
}

// Dispatcher routes each inbound event through persist → compose → publish.
// It is stateless; every delivery is evaluated on its own.
type Dispatcher struct {
	store         EventStore
	composer      *Composer
	publisher     NotificationPublisher
	duplicates    DuplicateChecker
	outboundQueue string
	collector     *metrics.Collector
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher. duplicates and collector may be nil.
func NewDispatcher(
	store EventStore,
	composer *Composer,
	publisher NotificationPublisher,
	duplicates DuplicateChecker,
	outboundQueue string,
	collector *metrics.Collector,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:         store,
		composer:      composer,
		publisher:     publisher,
		duplicates:    duplicates,
		outboundQueue: outboundQueue,
		collector:     collector,
		logger:        logger,
	}
}

// Handle processes one raw delivery body and returns the acknowledgment
// verdict. Unrecognized action types are dropped (acked) so poison messages
// never loop; every failure after decode rejects without requeue, because the
// cause may be systemic and blind redelivery would not help.
func (d *Dispatcher) Handle(ctx context.Context, body []byte) Outcome {
	d.collector.EventConsumed()

	event, err := models.DecodeEvent(body)
	if err != nil {
		d.logger.Warn("discarding undecodable message", slog.Any("error", err))
		d.collector.EventFailed()
		return OutcomeReject
	}

	log := d.logger.With(slog.String("event_id", event.ID), slog.String("tipo_accion", string(event.ActionType)))

	if !event.ActionType.Recognized() {
		log.Warn("unrecognized action type, dropping event")
		d.collector.EventDropped()
		return OutcomeAck
	}

	if err := event.Validate(); err != nil {
		log.Warn("event failed validation", slog.Any("error", err))
		d.collector.EventFailed()
		return OutcomeReject
	}

	// Fast path: a duplicate that is already persisted needs no further work.
	// Redis being unavailable just means falling through to the store, whose
	// write is idempotent anyway.
	if d.duplicates != nil {
		if dup, err := d.duplicates.IsDuplicate(ctx, event.ID); err == nil && dup {
			if _, err := d.store.FindByID(ctx, event.ID); err == nil {
				log.Info("duplicate event already persisted, acknowledging")
				d.collector.EventDuplicate()
				return OutcomeAck
			}
		}
	}

	if err := d.store.Persist(ctx, recordFromEvent(event)); err != nil {
		log.Error("failed to persist event", slog.Any("error", err))
		d.collector.EventFailed()
		return OutcomeReject
	}
	d.collector.EventPersisted()

	payload, err := d.composer.Compose(event)
	if err != nil {
		// The event is already persisted; only the notification step failed.
		// Rejecting parks the message on the dead-letter queue for replay.
		log.Error("failed to compose notification", slog.Any("error", err))
		d.collector.EventFailed()
		return OutcomeReject
	}

	if err := d.publisher.Publish(ctx, d.outboundQueue, payload); err != nil {
		log.Error("failed to publish notification", slog.Any("error", err))
		d.collector.EventFailed()
		return OutcomeReject
	}
	d.collector.NotificationPublished()

	log.Info("event processed", slog.String("subject", payload.Subject))
	return OutcomeAck
}

// recordFromEvent projects the wire event onto its stored form. Optional
// fields become NULL when absent; a fecha that does not parse persists as
// NULL rather than losing the event, and the composer rejects it later for
// the action types that render dates.
func recordFromEvent(event *models.DomainEvent) *repository.EventRecord {
	record := &repository.EventRecord{
		ID:         event.ID,
		ActionType: string(event.ActionType),
		Timestamp:  event.Timestamp,
		Usuario:    event.Payload.Usuario,
		Correo:     event.Payload.Correo,
	}

	if event.Payload.NumeroTelefono != "" {
		record.NumeroTelefono = &event.Payload.NumeroTelefono
	}
	if event.Payload.Codigo != "" {
		record.Codigo = &event.Payload.Codigo
	}
	if event.Payload.Fecha != "" {
		if t, err := time.Parse(time.RFC3339, event.Payload.Fecha); err == nil {
			record.Fecha = &t
		}
	}
	return record
}
