package services

import (
	"bytes"
	"errors"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"

	"github.com/Tourment0412/orquestador-solicitudes-micro/internal/templates"
)

// ErrRender marks a template that failed to compile or execute.
var ErrRender = errors.New("render failed")

// ErrInvalidDate marks a date string that does not parse to a valid instant.
var ErrInvalidDate = errors.New("invalid date")

// Renderer turns templates plus data into channel-ready content. Named
// templates are resolved through the source and rendered as HTML with
// escaping on; inline templates render as plain text for SMS bodies.
//
// Data is a string map on purpose: a key the template references but the map
// does not carry renders as the empty string, never an error.
type Renderer struct {
	source templates.Source
}

func NewRenderer(source templates.Source) *Renderer {
	return &Renderer{source: source}
}

// RenderNamed resolves name through the template source and renders it as
// HTML. Unresolvable names surface templates.ErrTemplateNotFound.
func (r *Renderer) RenderNamed(name string, data map[string]string) (string, error) {
	src, err := r.source.Resolve(name)
	if err != nil {
		return "", err
	}

	tpl, err := htmltemplate.New(name).Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

// RenderString renders an inline text template, e.g. an SMS body.
func (r *Renderer) RenderString(src string, data map[string]string) (string, error) {
	tpl, err := texttemplate.New("inline").Option("missingkey=zero").Parse(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.String(), nil
}

// FormatFecha renders an ISO-8601 instant as "DD/MM/YYYY a las H:MM a.m|p.m"
// in the given location: 12-hour clock, no leading zero on the hour.
func FormatFecha(value string, loc *time.Location) (string, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	t = t.In(loc)

	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	meridiem := "a.m"
	if t.Hour() >= 12 {
		meridiem = "p.m"
	}

	return fmt.Sprintf("%02d/%02d/%04d a las %d:%02d %s",
		t.Day(), int(t.Month()), t.Year(), hour, t.Minute(), meridiem), nil
}
