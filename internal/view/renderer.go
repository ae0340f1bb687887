// Package view adapts html/template to echo's Renderer interface. The
// templates themselves are an external collaborator: handlers only hand over
// a view name and a key-value context.
package view

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

// Renderer renders named templates parsed once at startup.
type Renderer struct {
	templates *template.Template
}

// New parses every template matching the glob (e.g. "web/templates/*.html").
func New(glob string) (*Renderer, error) {
	t, err := template.ParseGlob(glob)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
