package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_ValidBody(t *testing.T) {
	body := []byte(`{
		"id": "7b58e9a1-4a36-4a2e-bb1d-9a9a5a3f2c10",
		"tipoAccion": "REGISTRO_USUARIO",
		"timestamp": "2025-09-17T21:38:00Z",
		"payload": {"usuario": "ana", "correo": "ana@x.com", "numeroTelefono": "", "codigo": "", "fecha": "2025-09-17T21:38:00Z"}
	}`)

	event, err := DecodeEvent(body)
	require.NoError(t, err)
	assert.Equal(t, ActionRegistroUsuario, event.ActionType)
	assert.Equal(t, "ana", event.Payload.Usuario)
	assert.NoError(t, event.Validate())
}

func TestDecodeEvent_InvalidJSON(t *testing.T) {
	_, err := DecodeEvent([]byte("not json"))
	assert.Error(t, err)
}

func TestDecodeEvent_MissingIdentity(t *testing.T) {
	_, err := DecodeEvent([]byte(`{"tipoAccion": "AUTENTICACION"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)

	_, err = DecodeEvent([]byte(`{"id": "x"}`))
	assert.ErrorIs(t, err, ErrInvalidEvent)
}

func TestValidate_PerTypeRequirements(t *testing.T) {
	base := EventPayload{Usuario: "ana", Correo: "ana@x.com"}

	tests := []struct {
		name       string
		actionType ActionType
		payload    EventPayload
		wantErr    bool
	}{
		{"registro ok", ActionRegistroUsuario, base, false},
		{"missing correo", ActionRegistroUsuario, EventPayload{Usuario: "ana"}, true},
		{"missing usuario", ActionRegistroUsuario, EventPayload{Correo: "ana@x.com"}, true},
		{"autenticacion needs phone", ActionAutenticacion, base, true},
		{"autenticacion ok", ActionAutenticacion, EventPayload{Usuario: "ana", Correo: "ana@x.com", NumeroTelefono: "+573001234567"}, false},
		{"recuperar needs codigo", ActionRecuperarPassword, base, true},
		{"recuperar ok", ActionRecuperarPassword, EventPayload{Usuario: "ana", Correo: "ana@x.com", Codigo: "ABC123"}, false},
		{"claves needs phone", ActionAutenticacionClaves, base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := &DomainEvent{ID: "id", ActionType: tt.actionType, Payload: tt.payload}
			err := event.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidEvent)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestActionType_Recognized(t *testing.T) {
	for _, actionType := range []ActionType{ActionRegistroUsuario, ActionAutenticacion, ActionRecuperarPassword, ActionAutenticacionClaves} {
		assert.True(t, actionType.Recognized())
	}
	assert.False(t, ActionType("FOO").Recognized())
	assert.False(t, ActionType("").Recognized())
}

func TestNotificationPayload_Validate(t *testing.T) {
	ok := &NotificationPayload{
		Destination: Destination{Email: "a@x.com", SMS: "+57300"},
		Message:     Message{Email: "<p>hola</p>", SMS: "hola"},
		Subject:     "s",
	}
	assert.NoError(t, ok.Validate())

	orphanEmail := &NotificationPayload{
		Destination: Destination{Email: "a@x.com"},
		Message:     Message{},
	}
	assert.Error(t, orphanEmail.Validate())

	orphanSMS := &NotificationPayload{
		Destination: Destination{Email: "a@x.com", SMS: "+57300"},
		Message:     Message{Email: "<p>hola</p>"},
	}
	assert.Error(t, orphanSMS.Validate())

	empty := &NotificationPayload{}
	assert.Error(t, empty.Validate())
}
