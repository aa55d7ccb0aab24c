package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/msomdec/daybook/internal/domain"
	"github.com/msomdec/daybook/internal/service"
)

type contextKey string

const (
	userContextKey    contextKey = "user"
	sessionContextKey contextKey = "session"
)

const (
	authCookieName    = "token"
	sessionCookieName = "session_id"
	loginPath         = "/auth/login"
	dashboardPath     = "/dashboard"

	// Tokens within a day of expiry are silently reissued by RequireAuth.
	refreshThreshold = 24 * time.Hour
)

// UserFromContext extracts the authenticated user from the request context.
// Returns nil if no user is authenticated.
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}

// SessionFromContext extracts the server-side session attached by
// WithSession. Returns nil if the request carries no session.
func SessionFromContext(ctx context.Context) *service.Session {
	s, _ := ctx.Value(sessionContextKey).(*service.Session)
	return s
}

// WithSession ensures every request has a server-side session, creating
// one and setting the session cookie when absent, and attaches it to the
// request context.
func WithSession(sessions *service.SessionStore, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *service.Session
		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			sess = sessions.Get(cookie.Value)
		}
		if sess == nil {
			sess = sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   cookieSecure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth protects routes requiring authentication. It reads the token
// cookie, verifies it, loads the user, and injects the user into the
// request context. A token within a day of expiry is reissued and set as a
// fresh cookie. Missing or invalid tokens, missing users, and any
// unexpected verification failure all collapse to the same outcome: clear
// the cookie, remember where the request was headed, and redirect to the
// login page. Auth failures never surface as a 500.
func RequireAuth(auth *service.AuthService, sessions *service.SessionStore, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			redirectToLogin(w, r, sessions)
			return
		}

		userID, expiresAt, err := auth.Tokens().Verify(cookie.Value)
		if err != nil {
			clearAuthCookie(w, cookieSecure)
			redirectToLogin(w, r, sessions)
			return
		}

		user, err := auth.GetUserByID(r.Context(), userID)
		if err != nil {
			// Deleted account or lookup failure: treat as unauthenticated.
			if !errors.Is(err, domain.ErrNotFound) {
				slog.Error("auth gate user lookup", "error", err)
			}
			clearAuthCookie(w, cookieSecure)
			redirectToLogin(w, r, sessions)
			return
		}

		if time.Until(expiresAt) < refreshThreshold {
			if fresh, err := auth.Tokens().Issue(user.ID); err == nil {
				SetAuthCookie(w, fresh, cookieSecure)
			} else {
				slog.Error("reissue session token", "error", err)
			}
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GuestOnly redirects authenticated users to the dashboard, preventing
// re-login and re-registration. An invalid or expired token is cleared
// and the request proceeds as a guest.
func GuestOnly(auth *service.AuthService, cookieSecure bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(authCookieName); err == nil {
			if _, _, err := auth.Tokens().Verify(cookie.Value); err == nil {
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}
			clearAuthCookie(w, cookieSecure)
		}
		next.ServeHTTP(w, r)
	})
}

// SetAuthCookie sets the session token cookie with the standard
// attributes: httpOnly, Lax, seven-day max-age, secure per environment.
func SetAuthCookie(w http.ResponseWriter, token string, cookieSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(service.TokenTTL / time.Second),
	})
}

func clearAuthCookie(w http.ResponseWriter, cookieSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   cookieSecure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// redirectToLogin records the originally requested path for safe reads
// outside the auth routes, then redirects to the login page.
func redirectToLogin(w http.ResponseWriter, r *http.Request, sessions *service.SessionStore) {
	if r.Method == http.MethodGet && !strings.HasPrefix(r.URL.Path, "/auth/") {
		if sess := SessionFromContext(r.Context()); sess != nil {
			sessions.SetReturnTo(sess.ID, r.URL.RequestURI())
		}
	}
	http.Redirect(w, r, loginPath, http.StatusFound)
}
