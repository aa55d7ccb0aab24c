package handler

import (
	"net/http"

	"github.com/msomdec/daybook/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. Each route
// composes its middleware chain explicitly: session attach first, then
// rate limiting and CSRF for state-changing auth-sensitive routes, then
// the auth gate, then the handler.
func RegisterRoutes(
	mux *http.ServeMux,
	rend Renderer,
	auth *service.AuthService,
	entries *service.EntryService,
	sessions *service.SessionStore,
	loginLimiter *service.RateLimiter,
	cookieSecure bool,
) {
	homeH := NewHomeHandler(rend)
	authH := NewAuthHandler(auth, sessions, rend, cookieSecure)
	dashH := NewDashboardHandler(entries, sessions, rend)
	entryH := NewEntryHandler(entries, sessions, rend)

	withSession := func(h http.Handler) http.Handler {
		return WithSession(sessions, cookieSecure, h)
	}
	guest := func(h http.HandlerFunc) http.Handler {
		return withSession(GuestOnly(auth, cookieSecure, h))
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return withSession(RequireAuth(auth, sessions, cookieSecure, h))
	}
	// State-changing auth routes: rate limit, then CSRF, then guest gate.
	guestPost := func(h http.HandlerFunc) http.Handler {
		return withSession(RateLimit(loginLimiter, rend,
			CSRFProtect(sessions, rend,
				GuestOnly(auth, cookieSecure, h))))
	}
	// State-changing entry routes: CSRF, then auth gate.
	authedPost := func(h http.HandlerFunc) http.Handler {
		return withSession(CSRFProtect(sessions, rend,
			RequireAuth(auth, sessions, cookieSecure, h)))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.Handle("GET /{$}", guest(homeH.HandleHome))
	mux.Handle("GET /dashboard", authed(dashH.HandleDashboard))

	mux.Handle("GET /auth/register", guest(authH.HandleRegisterForm))
	mux.Handle("POST /auth/register", guestPost(authH.HandleRegister))
	mux.Handle("GET /auth/login", guest(authH.HandleLoginForm))
	mux.Handle("POST /auth/login", guestPost(authH.HandleLogin))
	mux.Handle("GET /auth/logout", withSession(http.HandlerFunc(authH.HandleLogout)))

	mux.Handle("GET /entries/search", authed(entryH.HandleSearch))
	mux.Handle("GET /entries/tag/{tag}", authed(entryH.HandleListByTag))
	mux.Handle("GET /entries/date/{date}", authed(entryH.HandleListByDate))
	mux.Handle("GET /entries/new/{date}", authed(entryH.HandleNewForm))
	mux.Handle("POST /entries/create", authedPost(entryH.HandleCreate))
	mux.Handle("GET /entries/{id}", authed(entryH.HandleView))
	mux.Handle("GET /entries/{id}/edit", authed(entryH.HandleEditForm))
	mux.Handle("POST /entries/{id}/update", authedPost(entryH.HandleUpdate))
	mux.Handle("POST /entries/{id}/delete", authedPost(entryH.HandleDelete))

	mux.Handle("/", withSession(HandleNotFound(rend)))
}
