package handler

import (
	"log/slog"
	"net/http"
)

// HomeHandler renders the guest landing page.
type HomeHandler struct {
	rend Renderer
}

// NewHomeHandler creates a new HomeHandler.
func NewHomeHandler(rend Renderer) *HomeHandler {
	return &HomeHandler{rend: rend}
}

// HandleHome renders the landing page.
// GET /
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if err := h.rend.Render(w, http.StatusOK, "index", map[string]any{
		"Title": "Welcome",
	}); err != nil {
		slog.Error("render home page", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// HandleNotFound renders the shared 404 page for unmatched paths.
func HandleNotFound(rend Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderError(rend, w, r, http.StatusNotFound, "404 Not Found", "Page not found")
	}
}
