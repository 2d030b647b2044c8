package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ActionType tags a domain event with the routing branch that handles it.
type ActionType string

const (
	ActionRegistroUsuario     ActionType = "REGISTRO_USUARIO"
	ActionAutenticacion       ActionType = "AUTENTICACION"
	ActionRecuperarPassword   ActionType = "RECUPERAR_PASSWORD"
	ActionAutenticacionClaves ActionType = "AUTENTICACION_CLAVES"
)

// Recognized reports whether the action type belongs to the known set.
func (t ActionType) Recognized() bool {
	switch t {
	case ActionRegistroUsuario, ActionAutenticacion, ActionRecuperarPassword, ActionAutenticacionClaves:
		return true
	}
	return false
}

// NeedsSMS reports whether the action type notifies over SMS in addition to
// email.
func (t ActionType) NeedsSMS() bool {
	return t == ActionAutenticacion || t == ActionAutenticacionClaves
}

// EventPayload carries the user-facing data of a domain event. Field names on
// the wire are Spanish, matching the producers.
type EventPayload struct {
	Usuario        string `json:"usuario"`
	Correo         string `json:"correo"`
	NumeroTelefono string `json:"numeroTelefono"`
	Codigo         string `json:"codigo"`
	Fecha          string `json:"fecha"`
}

// DomainEvent is the unit of work flowing through the pipeline. The id is
// producer-assigned (UUID v4) and doubles as the idempotency key.
type DomainEvent struct {
	ID         string       `json:"id"`
	ActionType ActionType   `json:"tipoAccion"`
	Timestamp  string       `json:"timestamp"`
	Payload    EventPayload `json:"payload"`
}

// ErrInvalidEvent marks a message body that decoded but fails required-field
// validation. Such messages are rejected without requeue.
var ErrInvalidEvent = errors.New("invalid domain event")

// DecodeEvent parses a raw message body into a DomainEvent. It only enforces
// the fields every event must carry; per-type requirements are checked by
// Validate once the action type is known to be recognized.
func DecodeEvent(body []byte) (*DomainEvent, error) {
	var event DomainEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	if event.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidEvent)
	}
	if event.ActionType == "" {
		return nil, fmt.Errorf("%w: missing tipoAccion", ErrInvalidEvent)
	}
	return &event, nil
}

// Validate enforces the payload fields a recognized action type requires.
func (e *DomainEvent) Validate() error {
	if e.Payload.Usuario == "" {
		return fmt.Errorf("%w: missing payload.usuario", ErrInvalidEvent)
	}
	if e.Payload.Correo == "" {
		return fmt.Errorf("%w: missing payload.correo", ErrInvalidEvent)
	}
	if e.ActionType.NeedsSMS() && e.Payload.NumeroTelefono == "" {
		return fmt.Errorf("%w: missing payload.numeroTelefono", ErrInvalidEvent)
	}
	if e.ActionType == ActionRecuperarPassword && e.Payload.Codigo == "" {
		return fmt.Errorf("%w: missing payload.codigo", ErrInvalidEvent)
	}
	return nil
}
