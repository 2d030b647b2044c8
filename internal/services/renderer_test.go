package services

import (
	"testing"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bogota = time.FixedZone("-05", -5*60*60)

func TestRenderNamed_InterpolatesData(t *testing.T) {
	r := NewRenderer(templates.NewEmbeddedSource())

	out, err := r.RenderNamed(templates.RegistroUsuario, map[string]string{
		"usuario": "Juan Pérez",
		"correo":  "juan.perez@example.com",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Juan Pérez")
	assert.Contains(t, out, "juan.perez@example.com")
	assert.Contains(t, out, "<html")
}

func TestRenderNamed_UnknownTemplate(t *testing.T) {
	r := NewRenderer(templates.NewEmbeddedSource())

	_, err := r.RenderNamed("no-existe.html", map[string]string{})
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)
}

func TestRenderNamed_EscapesInterpolatedValues(t *testing.T) {
	r := NewRenderer(templates.NewEmbeddedSource())

	out, err := r.RenderNamed(templates.RegistroUsuario, map[string]string{
		"usuario": "<script>alert(1)</script>",
		"correo":  "x@example.com",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>alert(1)</script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestRenderString_MissingKeyRendersEmpty(t *testing.T) {
	r := NewRenderer(templates.NewEmbeddedSource())

	out, err := r.RenderString("Hola {{.usuario}}, tu código es {{.codigo}}.", map[string]string{
		"usuario": "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hola ana, tu código es .", out)
}

func TestRenderString_UnterminatedAction(t *testing.T) {
	r := NewRenderer(templates.NewEmbeddedSource())

	_, err := r.RenderString("Hola {{.usuario", map[string]string{"usuario": "ana"})
	assert.ErrorIs(t, err, ErrRender)
}

func TestFormatFecha_RegressionFixture(t *testing.T) {
	out, err := FormatFecha("2025-09-17T21:38:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, "17/09/2025 a las 4:38 p.m", out)
}

func TestFormatFecha_MorningAndNoonEdges(t *testing.T) {
	out, err := FormatFecha("2025-09-17T14:08:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, "17/09/2025 a las 9:08 a.m", out)

	// 17:00Z is exactly noon in UTC-5
	out, err = FormatFecha("2025-09-17T17:00:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, "17/09/2025 a las 12:00 p.m", out)

	// 05:00Z is midnight in UTC-5
	out, err = FormatFecha("2025-09-17T05:00:00Z", bogota)
	require.NoError(t, err)
	assert.Equal(t, "17/09/2025 a las 12:00 a.m", out)
}

func TestFormatFecha_InvalidInput(t *testing.T) {
	for _, value := range []string{"", "ayer", "2025-13-45T99:99:00Z"} {
		_, err := FormatFecha(value, bogota)
		assert.ErrorIs(t, err, ErrInvalidDate, "value %q", value)
	}
}
