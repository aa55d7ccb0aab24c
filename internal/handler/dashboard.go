package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/daybook/internal/calendar"
	"github.com/msomdec/daybook/internal/service"
)

// DashboardHandler renders the calendar dashboard.
type DashboardHandler struct {
	entries  *service.EntryService
	sessions *service.SessionStore
	rend     Renderer
	now      func() time.Time
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(entries *service.EntryService, sessions *service.SessionStore, rend Renderer) *DashboardHandler {
	return &DashboardHandler{entries: entries, sessions: sessions, rend: rend, now: time.Now}
}

// HandleDashboard renders the month calendar with per-day entry counts.
// The month and year query parameters are zero-based month and full year;
// anything out of range falls back to the current month.
// GET /dashboard?month=&year=
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	if user == nil {
		http.Redirect(w, r, loginPath, http.StatusFound)
		return
	}

	now := h.now()
	target := calendar.MonthYear{Month: int(now.Month()) - 1, Year: now.Year()}
	if my, ok := calendar.ParseMonthYear(r.URL.Query().Get("month"), r.URL.Query().Get("year")); ok {
		target = my
	}

	grid := calendar.BuildMonthGrid(target.Year, target.Month, now)
	nav := calendar.NavigationTargets(target.Year, target.Month)

	start := calendar.FormatDateString(target.Year, target.Month, 1)
	end := calendar.FormatDateString(target.Year, target.Month, grid.DaysInMonth)

	counts, err := h.entries.CountsForRange(r.Context(), user.ID, start, end)
	if err != nil {
		slog.Error("count entries for dashboard", "error", err)
		renderError(h.rend, w, r, http.StatusInternalServerError, "Error",
			"We apologize for the inconvenience. Please try again later.")
		return
	}

	data := map[string]any{
		"Title":    "Dashboard",
		"User":     user,
		"Grid":     grid,
		"Counts":   counts,
		"Nav":      nav,
		"DayNames": calendar.DayNames,
	}
	if sess := SessionFromContext(r.Context()); sess != nil {
		if csrf, err := h.sessions.EnsureCSRFToken(sess.ID); err == nil {
			data["CSRFToken"] = csrf
		}
	}

	if err := h.rend.Render(w, http.StatusOK, "dashboard", data); err != nil {
		slog.Error("render dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
