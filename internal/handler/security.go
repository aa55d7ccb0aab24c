package handler

import (
	"net"
	"net/http"

	"github.com/msomdec/daybook/internal/service"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://cdn.quilljs.com https://cdnjs.cloudflare.com; " +
	"style-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net https://cdn.quilljs.com https://cdnjs.cloudflare.com; " +
	"font-src 'self' https://cdnjs.cloudflare.com; " +
	"img-src 'self' data: https:; " +
	"connect-src 'self'; " +
	"frame-src 'none'; " +
	"object-src 'none'; " +
	"base-uri 'self';"

// SecurityHeaders sets the hardening headers on every response. It never
// blocks a request.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-XSS-Protection", "1; mode=block")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		next.ServeHTTP(w, r)
	})
}

// RateLimit rejects requests from client addresses that exceed the
// limiter's window, rendering a 429 page. Rejections short-circuit before
// any downstream handler runs.
func RateLimit(limiter *service.RateLimiter, rend Renderer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(clientAddr(r)) {
			renderError(rend, w, r, http.StatusTooManyRequests, "Too Many Attempts",
				"Too many login attempts. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CSRFProtect validates the CSRF token on state-changing requests. Safe
// methods (GET, HEAD, OPTIONS) always pass. The token is read from the
// _csrf form field first, then the X-CSRF-Token header, and must equal
// the session's stored value exactly. A missing session, missing token,
// or mismatch all produce the same 403.
func CSRFProtect(sessions *service.SessionStore, rend Renderer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		token := r.PostFormValue("_csrf")
		if token == "" {
			token = r.Header.Get("X-CSRF-Token")
		}

		var sessionToken string
		if sess := SessionFromContext(r.Context()); sess != nil {
			sessionToken = sessions.CSRFToken(sess.ID)
		}

		if token == "" || sessionToken == "" || token != sessionToken {
			renderError(rend, w, r, http.StatusForbidden, "Forbidden",
				"Invalid security token. Please refresh the page and try again.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientAddr extracts the client IP for rate-limit keying, without the
// ephemeral port.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
