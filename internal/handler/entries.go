package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/msomdec/daybook/internal/domain"
	"github.com/msomdec/daybook/internal/service"
)

const searchPageSize = 12

// EntryHandler handles diary entry pages: per-date views, CRUD forms,
// search, and tag filtering. All routes are auth-gated; ownership is
// enforced by the entry service, so a foreign entry id renders the same
// 404 as a nonexistent one.
type EntryHandler struct {
	entries  *service.EntryService
	sessions *service.SessionStore
	rend     Renderer
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entries *service.EntryService, sessions *service.SessionStore, rend Renderer) *EntryHandler {
	return &EntryHandler{entries: entries, sessions: sessions, rend: rend}
}

// HandleSearch renders paginated search results over entry titles and
// content.
// GET /entries/search?q=&page=
func (h *EntryHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	term := strings.TrimSpace(r.URL.Query().Get("q"))

	page := 1
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	data := map[string]any{
		"Title":       "Search Entries",
		"User":        user,
		"Entries":     []domain.Entry{},
		"SearchTerm":  term,
		"CurrentPage": page,
		"NextPage":    page + 1,
		"HasMore":     false,
	}

	if term != "" {
		// Request one extra row; its presence signals another page.
		offset := (page - 1) * searchPageSize
		entries, err := h.entries.Search(r.Context(), user.ID, term, searchPageSize+1, offset)
		if err != nil {
			slog.Error("search entries", "error", err)
			renderError(h.rend, w, r, http.StatusInternalServerError, "Error", "Failed to search entries")
			return
		}
		if len(entries) > searchPageSize {
			entries = entries[:searchPageSize]
			data["HasMore"] = true
		}
		data["Entries"] = entries
		data["Title"] = "Search Results"
	}

	h.render(w, r, "search", data)
}

// HandleListByTag renders all entries carrying the given tag.
// GET /entries/tag/{tag}
func (h *EntryHandler) HandleListByTag(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	tag := r.PathValue("tag")

	entries, err := h.entries.ListByTag(r.Context(), user.ID, tag)
	if err != nil {
		slog.Error("list entries by tag", "error", err)
		renderError(h.rend, w, r, http.StatusInternalServerError, "Error", "Failed to load entries")
		return
	}

	h.render(w, r, "entries_tag", map[string]any{
		"Title":   "Entries tagged: " + tag,
		"User":    user,
		"Entries": entries,
		"Tag":     tag,
	})
}

// HandleListByDate renders all entries for one calendar date. A malformed
// date redirects back to the dashboard.
// GET /entries/date/{date}
func (h *EntryHandler) HandleListByDate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	date := r.PathValue("date")

	if !service.ValidEntryDate(date) {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return
	}

	entries, err := h.entries.ListByDate(r.Context(), user.ID, date)
	if err != nil {
		slog.Error("list entries by date", "error", err)
		renderError(h.rend, w, r, http.StatusInternalServerError, "Error", "Failed to load diary entries")
		return
	}

	h.render(w, r, "entries_date", map[string]any{
		"Title":         "Diary Entries",
		"User":          user,
		"Entries":       entries,
		"Date":          date,
		"FormattedDate": formatDateForDisplay(date),
		"Success":       r.URL.Query().Get("success"),
		"Error":         r.URL.Query().Get("error"),
	})
}

// HandleNewForm renders the entry creation form for a date.
// GET /entries/new/{date}
func (h *EntryHandler) HandleNewForm(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !service.ValidEntryDate(date) {
		http.Redirect(w, r, dashboardPath, http.StatusFound)
		return
	}

	h.render(w, r, "entry_create", map[string]any{
		"Title":         "New Diary Entry",
		"User":          UserFromContext(r.Context()),
		"Date":          date,
		"FormattedDate": formatDateForDisplay(date),
	})
}

// HandleCreate stores a new entry and redirects to its date view.
// POST /entries/create
func (h *EntryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	date := r.PostFormValue("entry_date")

	formData := map[string]string{
		"Title":   r.PostFormValue("title"),
		"Content": r.PostFormValue("content"),
		"Tags":    r.PostFormValue("tags"),
	}

	_, err := h.entries.Create(r.Context(), user.ID,
		formData["Title"], formData["Content"], date, formData["Tags"])
	if err != nil {
		msg := "Failed to create entry. Please try again."
		if errors.Is(err, domain.ErrInvalidInput) {
			msg = userMessage(err)
		} else {
			slog.Error("create entry", "error", err)
		}
		h.render(w, r, "entry_create", map[string]any{
			"Title":         "New Diary Entry",
			"User":          user,
			"Date":          date,
			"FormattedDate": formatDateForDisplay(date),
			"Error":         msg,
			"FormData":      formData,
		})
		return
	}

	http.Redirect(w, r, "/entries/date/"+date+"?success="+url.QueryEscape("Entry created successfully"), http.StatusFound)
}

// HandleView renders a single entry.
// GET /entries/{id}
func (h *EntryHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	entry, ok := h.loadEntry(w, r, user.ID)
	if !ok {
		return
	}

	h.render(w, r, "entry_view", map[string]any{
		"Title":   "Diary Entry",
		"User":    user,
		"Entry":   entry,
		"Success": r.URL.Query().Get("success"),
		"Error":   r.URL.Query().Get("error"),
	})
}

// HandleEditForm renders the edit form for an entry.
// GET /entries/{id}/edit
func (h *EntryHandler) HandleEditForm(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	entry, ok := h.loadEntry(w, r, user.ID)
	if !ok {
		return
	}

	h.render(w, r, "entry_edit", map[string]any{
		"Title": "Edit Diary Entry",
		"User":  user,
		"Entry": entry,
	})
}

// HandleUpdate rewrites an entry's title, content, and tags.
// POST /entries/{id}/update
func (h *EntryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.renderNotFound(w, r)
		return
	}

	entry, err := h.entries.Update(r.Context(), user.ID, id,
		r.PostFormValue("title"), r.PostFormValue("content"), r.PostFormValue("tags"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			current, ok := h.loadEntry(w, r, user.ID)
			if !ok {
				return
			}
			h.render(w, r, "entry_edit", map[string]any{
				"Title": "Edit Diary Entry",
				"User":  user,
				"Entry": current,
				"Error": userMessage(err),
			})
			return
		}
		slog.Error("update entry", "error", err)
		renderError(h.rend, w, r, http.StatusInternalServerError, "Error", "Failed to update entry. Please try again.")
		return
	}

	http.Redirect(w, r, "/entries/"+strconv.FormatInt(entry.ID, 10)+"?success="+url.QueryEscape("Entry updated successfully"), http.StatusFound)
}

// HandleDelete removes an entry and returns to its date view.
// POST /entries/{id}/delete
func (h *EntryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())

	entry, ok := h.loadEntry(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.entries.Delete(r.Context(), user.ID, entry.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.renderNotFound(w, r)
			return
		}
		slog.Error("delete entry", "error", err)
		http.Redirect(w, r, "/entries/"+strconv.FormatInt(entry.ID, 10)+"?error="+url.QueryEscape("Failed to delete entry"), http.StatusFound)
		return
	}

	http.Redirect(w, r, "/entries/date/"+entry.EntryDate+"?success="+url.QueryEscape("Entry deleted successfully"), http.StatusFound)
}

// loadEntry resolves the {id} path value to an entry owned by the user,
// rendering the shared 404 page when the id is malformed, unknown, or
// owned by someone else.
func (h *EntryHandler) loadEntry(w http.ResponseWriter, r *http.Request, userID int64) (*domain.Entry, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		h.renderNotFound(w, r)
		return nil, false
	}

	entry, err := h.entries.Get(r.Context(), userID, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			slog.Error("load entry", "error", err)
		}
		h.renderNotFound(w, r)
		return nil, false
	}
	return entry, true
}

func (h *EntryHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	renderError(h.rend, w, r, http.StatusNotFound, "404 Not Found", "Diary entry not found")
}

func (h *EntryHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		if csrf, err := h.sessions.EnsureCSRFToken(sess.ID); err == nil {
			data["CSRFToken"] = csrf
		} else {
			slog.Error("ensure csrf token", "error", err)
		}
	}
	if err := h.rend.Render(w, http.StatusOK, name, data); err != nil {
		slog.Error("render entry page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// formatDateForDisplay renders a YYYY-MM-DD date as a long-form heading,
// e.g. "Monday, January 2, 2006".
func formatDateForDisplay(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Monday, January 2, 2006")
}
