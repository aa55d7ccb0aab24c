package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/msomdec/daybook/internal/domain"
	"github.com/msomdec/daybook/internal/service"
)

// AuthHandler handles registration, login, and logout.
type AuthHandler struct {
	auth         *service.AuthService
	sessions     *service.SessionStore
	rend         Renderer
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionStore, rend Renderer, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, rend: rend, cookieSecure: cookieSecure}
}

// HandleRegisterForm renders the registration page.
// GET /auth/register
func (h *AuthHandler) HandleRegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuthPage(w, r, "register", "Register", "", nil)
}

// HandleRegister processes a registration submission. On success a session
// token cookie is set and the user lands on the dashboard; validation
// failures re-render the form with the submitted values preserved.
// POST /auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	formData := map[string]string{
		"Name":  strings.TrimSpace(r.PostFormValue("name")),
		"Email": strings.TrimSpace(r.PostFormValue("email")),
	}

	user, token, err := h.auth.Register(r.Context(),
		formData["Email"],
		formData["Name"],
		r.PostFormValue("password"),
		r.PostFormValue("confirm_password"),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.renderAuthPage(w, r, "register", "Register", "Email already registered", formData)
		case errors.Is(err, domain.ErrInvalidInput):
			h.renderAuthPage(w, r, "register", "Register", userMessage(err), formData)
		default:
			slog.Error("register user", "error", err)
			h.renderAuthPage(w, r, "register", "Register", "Registration failed. Please try again.", formData)
		}
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	SetAuthCookie(w, token, h.cookieSecure)
	http.Redirect(w, r, dashboardPath, http.StatusFound)
}

// HandleLoginForm renders the login page.
// GET /auth/login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuthPage(w, r, "login", "Login", "", nil)
}

// HandleLogin processes a login submission. On success the token cookie is
// set and the user is sent to the path they originally requested, or the
// dashboard.
// POST /auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.PostFormValue("email"))
	formData := map[string]string{"Email": email}

	user, token, err := h.auth.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			h.renderAuthPage(w, r, "login", "Login", "Invalid email or password", formData)
			return
		}
		slog.Error("login user", "error", err)
		h.renderAuthPage(w, r, "login", "Login", "Login failed. Please try again.", formData)
		return
	}

	SetAuthCookie(w, token, h.cookieSecure)

	target := dashboardPath
	if sess := SessionFromContext(r.Context()); sess != nil {
		if returnTo := h.sessions.PopReturnTo(sess.ID); returnTo != "" {
			target = returnTo
		}
	}
	slog.Info("user logged in", "user_id", user.ID)
	http.Redirect(w, r, target, http.StatusFound)
}

// HandleLogout clears the token cookie and returns to the landing page.
// The token itself stays valid until expiry; there is no revocation list.
// GET /auth/logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *AuthHandler) renderAuthPage(w http.ResponseWriter, r *http.Request, name, title, errMsg string, formData map[string]string) {
	data := map[string]any{
		"Title":    title,
		"Error":    errMsg,
		"FormData": formData,
	}
	if sess := SessionFromContext(r.Context()); sess != nil {
		if csrf, err := h.sessions.EnsureCSRFToken(sess.ID); err == nil {
			data["CSRFToken"] = csrf
		} else {
			slog.Error("ensure csrf token", "error", err)
		}
	}
	if err := h.rend.Render(w, http.StatusOK, name, data); err != nil {
		slog.Error("render auth page", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// userMessage strips the sentinel prefix from an ErrInvalidInput chain,
// leaving the human-readable part for the form.
func userMessage(err error) string {
	msg := err.Error()
	if cut, ok := strings.CutPrefix(msg, domain.ErrInvalidInput.Error()+": "); ok {
		return cut
	}
	return msg
}
