package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/msomdec/daybook/internal/handler"
	"github.com/msomdec/daybook/internal/service"
)

func TestHandleLogout_ClearsCookie(t *testing.T) {
	auth, _ := newTestAuth(t)
	sessions := service.NewSessionStoreWithClock(time.Now)
	_, token := registerTestUser(t, auth)

	h := handler.NewAuthHandler(auth, sessions, &stubRenderer{}, false)

	req := httptest.NewRequest(http.MethodGet, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	rec := httptest.NewRecorder()
	h.HandleLogout(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %s", loc)
	}

	cleared := findCookie(t, rec, "token")
	if cleared == nil {
		t.Fatal("expected a cookie mutation")
	}
	if cleared.MaxAge != -1 || cleared.Value != "" {
		t.Fatalf("expected a deletion cookie, got MaxAge=%d Value=%q", cleared.MaxAge, cleared.Value)
	}
}

func TestHandleLogin_RedirectsToReturnTo(t *testing.T) {
	auth, _ := newTestAuth(t)
	sessions := service.NewSessionStoreWithClock(time.Now)
	registerTestUser(t, auth)

	sess := sessions.Create()
	sessions.SetReturnTo(sess.ID, "/entries/date/2025-06-01")

	h := handler.NewAuthHandler(auth, sessions, &stubRenderer{}, false)
	chain := handler.WithSession(sessions, false, http.HandlerFunc(h.HandleLogin))

	form := url.Values{
		"email":    {"gate@example.com"},
		"password": {"password123"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "session_id", Value: sess.ID})
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/entries/date/2025-06-01" {
		t.Fatalf("expected the remembered path, got %s", loc)
	}

	set := findCookie(t, rec, "token")
	if set == nil || set.Value == "" {
		t.Fatal("expected a session token cookie on login")
	}
	// The hint is consumed; a second login lands on the dashboard.
	if got := sessions.PopReturnTo(sess.ID); got != "" {
		t.Fatalf("expected returnTo consumed, got %q", got)
	}
}

func TestHandleLogin_InvalidCredentialsRerendersForm(t *testing.T) {
	auth, _ := newTestAuth(t)
	sessions := service.NewSessionStoreWithClock(time.Now)
	registerTestUser(t, auth)

	rend := &stubRenderer{}
	h := handler.NewAuthHandler(auth, sessions, rend, false)
	chain := handler.WithSession(sessions, false, http.HandlerFunc(h.HandleLogin))

	form := url.Values{
		"email":    {"gate@example.com"},
		"password": {"wrongpassword"},
	}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	chain.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 re-render, got %d", rec.Code)
	}
	if rend.name != "login" {
		t.Fatalf("expected the login page, rendered %q", rend.name)
	}
	if rend.data["Error"] != "Invalid email or password" {
		t.Fatalf("unexpected error message %v", rend.data["Error"])
	}
	if findCookie(t, rec, "token") != nil {
		t.Fatal("no token cookie may be set on a failed login")
	}
}
