package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// View is the tagged result of a handler.
//
// Full and Fragment name templates; Shape decides which one is executed.
type View struct {
	Shape    Shape
	Full     string
	Fragment string
	Data     any
	Status   int
}

// Template returns the template name for the view's shape.
func (v View) Template() string {
	if v.Shape == Fragment && v.Fragment != "" {
		return v.Fragment
	}
	return v.Full
}

// Renderer executes views against the embedded template set.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("soundcheck").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render writes v to w. Output is buffered so a template error never leaves a partial body.
func (r *Renderer) Render(w http.ResponseWriter, v View) error {
	name := v.Template()
	if r.tmpl.Lookup(name) == nil {
		return fmt.Errorf("template %q not defined", name)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, v.Data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	status := v.Status
	if status == 0 {
		status = http.StatusOK
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", MarkerHeader)
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Assets serves the embedded static directory under /static/ and mounts as a [server.Handler].
type Assets struct {
	http.Handler
}

// NewAssets builds the file server over the embedded static directory.
func NewAssets() Assets {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return Assets{Handler: http.StripPrefix("/static/", http.FileServerFS(sub))}
}

// Routes returns the patterns served from the embedded directory.
func (Assets) Routes() []string {
	return []string{"GET /static/"}
}
