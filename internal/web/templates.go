// Package web provides the HTML handlers and templates for the Yatube site.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates holds the parsed HTML templates for the web interface.
type Templates struct {
	templates *template.Template
}

// NewTemplates creates a new Templates instance by parsing all embedded templates.
func NewTemplates() (*Templates, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Templates{templates: tmpl}, nil
}

// RenderBytes executes a named template into memory.
// The result is exactly what Render writes, so it can be cached and replayed.
func (t *Templates) RenderBytes(name string, data interface{}) ([]byte, error) {
	tmpl := t.templates.Lookup(name)
	if tmpl == nil {
		return nil, fmt.Errorf("template %q not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %q: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Render renders a named template with the provided data to the response writer.
// Nothing is written if rendering fails, so the caller can still send an error page.
func (t *Templates) Render(w http.ResponseWriter, name string, data interface{}) error {
	return t.RenderStatus(w, http.StatusOK, name, data)
}

// RenderStatus is Render with an explicit status code
func (t *Templates) RenderStatus(w http.ResponseWriter, status int, name string, data interface{}) error {
	body, err := t.RenderBytes(name, data)
	if err != nil {
		return err
	}
	writeHTML(w, status, body)
	return nil
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// MediaFileServer returns an http.Handler that serves uploaded post images from mediaDir
// under the /media/ prefix.
func MediaFileServer(mediaDir string) http.Handler {
	absPath, err := filepath.Abs(mediaDir)
	if err != nil {
		panic(fmt.Sprintf("failed to get absolute path for media directory: %v", err))
	}
	return http.StripPrefix("/media/", http.FileServer(http.Dir(absPath)))
}
