package templates

import (
	"embed"
	"errors"
	"fmt"
)

//go:embed html/*.html
var htmlFS embed.FS

// Email template names resolvable through a Source.
const (
	RegistroUsuario     = "registro-usuario.html"
	AlertaSeguridad     = "alerta-seguridad.html"
	CambioPassword      = "cambio-password.html"
	NotificacionSistema = "notificacion-sistema.html"
)

// Notification subjects.
const (
	SubjectRegistration          = "Registro exitoso"
	SubjectLogin                 = "Ingreso a la aplicación"
	SubjectPasswordChangeRequest = "Solicitud de cambio de contraseña"
	SubjectPasswordChange        = "Cambio de contraseña"
)

// SMS text templates, rendered inline.
const (
	LoginMessage = "Hola {{.usuario}}, se ha registrado un inicio de sesión en tu cuenta.\n" +
		"Correo: {{.correo}}\n" +
		"Fecha: {{.fecha}}\n\n" +
		"Si no reconoces esta actividad, cambia tu contraseña inmediatamente."

	PasswordChangeMessage = "Hola {{.usuario}}, tu contraseña fue cambiada exitosamente el {{.fecha}}.\n" +
		"Correo: {{.correo}}\n" +
		"Usuario: {{.usuario}}\n\n" +
		"Si no fuiste tú, restablece tu contraseña de inmediato y contacta a soporte."
)

// ErrTemplateNotFound marks a template name the source cannot resolve.
var ErrTemplateNotFound = errors.New("template not found")

// Source resolves a template name to its raw text.
type Source interface {
	Resolve(name string) (string, error)
}

// EmbeddedSource serves the templates compiled into the binary.
type EmbeddedSource struct{}

func NewEmbeddedSource() *EmbeddedSource {
	return &EmbeddedSource{}
}

func (s *EmbeddedSource) Resolve(name string) (string, error) {
	data, err := htmlFS.ReadFile("html/" + name)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return string(data), nil
}
