// Package view renders HTML pages from templates embedded at build time.
// It implements the handler.Renderer interface; handlers never touch
// templates directly.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
)

//go:embed templates/*.html
var templatesFS embed.FS

// pageNames lists every renderable page. Each page file defines a
// "content" block that the shared layout wraps.
var pageNames = []string{
	"index",
	"login",
	"register",
	"dashboard",
	"entries_date",
	"entries_tag",
	"search",
	"entry_view",
	"entry_create",
	"entry_edit",
	"error",
}

// Engine renders named pages inside the shared layout.
type Engine struct {
	pages map[string]*template.Template
}

// New parses all embedded templates. Parse failures are configuration
// errors and surface at startup, not per request.
func New() (*Engine, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Engine{pages: pages}, nil
}

// Render writes the named page with the given data bag. The page is
// buffered before the status is written so a template failure never
// produces a half-written response.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data map[string]any) error {
	t, ok := e.pages[name]
	if !ok {
		return fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
