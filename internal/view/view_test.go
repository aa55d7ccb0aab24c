package view_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/daybook/internal/calendar"
	"github.com/msomdec/daybook/internal/view"
)

func TestNew_ParsesAllPages(t *testing.T) {
	if _, err := view.New(); err != nil {
		t.Fatalf("New: %v", err)
	}
}

func TestRender_LoginPage(t *testing.T) {
	eng, err := view.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	err = eng.Render(rec, 200, "login", map[string]any{
		"Title":     "Login",
		"CSRFToken": "token-value",
		"Error":     "",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `name="_csrf"`) {
		t.Fatal("expected a csrf field in the login form")
	}
	if !strings.Contains(body, "token-value") {
		t.Fatal("expected the csrf token to be embedded")
	}
}

func TestRender_Dashboard(t *testing.T) {
	eng, err := view.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ref := time.Date(2024, 9, 15, 12, 0, 0, 0, time.UTC)
	grid := calendar.BuildMonthGrid(2024, 8, ref)

	rec := httptest.NewRecorder()
	err = eng.Render(rec, 200, "dashboard", map[string]any{
		"Title":    "Dashboard",
		"Grid":     grid,
		"Counts":   map[string]int{"2024-09-15": 3},
		"Nav":      calendar.NavigationTargets(2024, 8),
		"DayNames": calendar.DayNames,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "September 2024") {
		t.Fatal("expected the month heading")
	}
	if !strings.Contains(body, "/entries/date/2024-09-15") {
		t.Fatal("expected a day link")
	}
	if !strings.Contains(body, `<span class="entry-count">3</span>`) {
		t.Fatal("expected the entry count badge")
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	eng, err := view.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rec := httptest.NewRecorder()
	if err := eng.Render(rec, 200, "no-such-page", nil); err == nil {
		t.Fatal("expected an error for an unknown template")
	}
}
