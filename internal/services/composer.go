package services

import (
	"fmt"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/models"
	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/templates"
)

// Composer builds a channel-addressed notification from a domain event, one
// branch per action type.
type Composer struct {
	renderer *Renderer
	location *time.Location
}

// NewComposer creates a Composer. The location controls how payload dates are
// rendered; nil falls back to UTC-5, the audience's offset.
func NewComposer(renderer *Renderer, location *time.Location) *Composer {
	if location == nil {
		location = time.FixedZone("-05", -5*60*60)
	}
	return &Composer{renderer: renderer, location: location}
}

// Compose routes the event to its composition branch. The returned payload
// always satisfies the destination/message invariant.
func (c *Composer) Compose(event *models.DomainEvent) (*models.NotificationPayload, error) {
	var (
		payload *models.NotificationPayload
		err     error
	)

	switch event.ActionType {
	case models.ActionRegistroUsuario:
		payload, err = c.registroUsuario(event.Payload)
	case models.ActionAutenticacion:
		payload, err = c.autenticacion(event.Payload)
	case models.ActionRecuperarPassword:
		payload, err = c.recuperarPassword(event.Payload)
	case models.ActionAutenticacionClaves:
		payload, err = c.autenticacionClaves(event.Payload)
	default:
		return nil, fmt.Errorf("no composer for action type %q", event.ActionType)
	}
	if err != nil {
		return nil, err
	}

	if err := payload.Validate(); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Composer) registroUsuario(p models.EventPayload) (*models.NotificationPayload, error) {
	html, err := c.renderer.RenderNamed(templates.RegistroUsuario, map[string]string{
		"usuario": p.Usuario,
		"correo":  p.Correo,
	})
	if err != nil {
		return nil, err
	}

	return &models.NotificationPayload{
		Destination: models.Destination{Email: p.Correo},
		Message:     models.Message{Email: html},
		Subject:     templates.SubjectRegistration,
	}, nil
}

func (c *Composer) autenticacion(p models.EventPayload) (*models.NotificationPayload, error) {
	fecha, err := FormatFecha(p.Fecha, c.location)
	if err != nil {
		return nil, err
	}

	data := map[string]string{
		"usuario": p.Usuario,
		"correo":  p.Correo,
		"fecha":   fecha,
	}

	html, err := c.renderer.RenderNamed(templates.AlertaSeguridad, data)
	if err != nil {
		return nil, err
	}
	sms, err := c.renderer.RenderString(templates.LoginMessage, data)
	if err != nil {
		return nil, err
	}

	return &models.NotificationPayload{
		Destination: models.Destination{Email: p.Correo, SMS: p.NumeroTelefono},
		Message:     models.Message{Email: html, SMS: sms},
		Subject:     templates.SubjectLogin,
	}, nil
}

func (c *Composer) recuperarPassword(p models.EventPayload) (*models.NotificationPayload, error) {
	html, err := c.renderer.RenderNamed(templates.CambioPassword, map[string]string{
		"usuario": p.Usuario,
		"correo":  p.Correo,
		"codigo":  p.Codigo,
	})
	if err != nil {
		return nil, err
	}

	return &models.NotificationPayload{
		Destination: models.Destination{Email: p.Correo},
		Message:     models.Message{Email: html},
		Subject:     templates.SubjectPasswordChangeRequest,
	}, nil
}

func (c *Composer) autenticacionClaves(p models.EventPayload) (*models.NotificationPayload, error) {
	fecha, err := FormatFecha(p.Fecha, c.location)
	if err != nil {
		return nil, err
	}

	data := map[string]string{
		"usuario": p.Usuario,
		"correo":  p.Correo,
		"fecha":   fecha,
	}

	html, err := c.renderer.RenderNamed(templates.NotificacionSistema, data)
	if err != nil {
		return nil, err
	}
	sms, err := c.renderer.RenderString(templates.PasswordChangeMessage, data)
	if err != nil {
		return nil, err
	}

	return &models.NotificationPayload{
		Destination: models.Destination{Email: p.Correo, SMS: p.NumeroTelefono},
		Message:     models.Message{Email: html, SMS: sms},
		Subject:     templates.SubjectPasswordChange,
	}, nil
}
