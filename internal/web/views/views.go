// Package views renders the dashboard pages. The page shells are templ
// components written in Go; page bodies are html/template files embedded in
// the binary and exposed as templ.Components so handlers compose both the
// same way.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("views").Funcs(template.FuncMap{
	"statusLabel": StatusLabel,
}).ParseFS(templateFS, "templates/*.html"))

func component(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return templates.ExecuteTemplate(w, name, data)
	})
}
