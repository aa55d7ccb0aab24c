package handler

import (
	"log/slog"
	"net/http"
)

// Renderer produces a response body for a named template and a data bag.
// The HTML layer is a collaborator of the handlers, not part of them; the
// production implementation lives in internal/view.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data map[string]any) error
}

// renderError renders the shared error page. The message is always a
// generic, user-facing one; raw details only ever go to the log.
func renderError(rend Renderer, w http.ResponseWriter, r *http.Request, status int, title, message string) {
	data := map[string]any{
		"Title":   title,
		"Status":  status,
		"Message": message,
		"User":    UserFromContext(r.Context()),
	}
	if err := rend.Render(w, status, "error", data); err != nil {
		slog.Error("render error page", "error", err)
		http.Error(w, message, status)
	}
}
