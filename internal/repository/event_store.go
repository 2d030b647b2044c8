package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrEventNotFound is returned by FindByID when no record exists for the id.
var ErrEventNotFound = errors.New("event not found")

// EventRecord is the stored projection of a domain event. Optional payload
// fields are pointers so that absent values persist as NULL rather than empty
// strings, and Fecha is a native timestamp instead of the wire string.
type EventRecord struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	ActionType     string     `gorm:"column:tipo_accion;not null;index" json:"tipoAccion"`
	Timestamp      string     `gorm:"not null" json:"timestamp"`
	Usuario        string     `gorm:"not null" json:"usuario"`
	Correo         string     `gorm:"not null" json:"correo"`
	NumeroTelefono *string    `json:"numeroTelefono,omitempty"`
	Codigo         *string    `json:"codigo,omitempty"`
	Fecha          *time.Time `json:"fecha,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func (EventRecord) TableName() string {
	return "eventos"
}

// EventStore persists received events for idempotency checks and audit reads.
type EventStore struct {
	db *gorm.DB
}

// NewEventStore creates an EventStore and migrates its schema.
func NewEventStore(db *gorm.DB) *EventStore {
	db.AutoMigrate(&EventRecord{})
	return &EventStore{db: db}
}

// Persist writes the record, ignoring conflicts on the primary key. The
// transport delivers at least once, so the same id arriving twice is a normal
// success, never an error.
func (s *EventStore) Persist(ctx context.Context, record *EventRecord) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
}

// FindByID retrieves a persisted event by its id.
func (s *EventStore) FindByID(ctx context.Context, id string) (*EventRecord, error) {
	var record EventRecord
	err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
