package httpserver

import (
	"net/http"
	"sort"
	"strings"

	"chargehub/backend/services/chargehub/internal/http/handlers"
	"chargehub/backend/services/chargehub/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers     *handlers.AuthHandlers
	StationsHandlers *handlers.StationsHandlers
	MapHandlers      *handlers.MapHandlers
	HealthHandler    http.HandlerFunc
	LandingHandler   http.HandlerFunc
	NotFoundHandler  http.HandlerFunc
	MetricsHandler   http.Handler
	LiveHandler      http.HandlerFunc
	// Authenticate guards token-only endpoints.
	Authenticate func(http.Handler) http.Handler
	// Session loads the per-session store; it runs after Authenticate.
	Session func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	notFound := deps.NotFoundHandler
	if notFound == nil {
		notFound = handlers.NewNotFoundHandler()
	}
	mux.Handle("/", notFound)
	mux.Handle("/{$}", method(http.MethodGet, deps.LandingHandler))
	mux.Handle("/health", method(http.MethodGet, deps.HealthHandler))
	if deps.MetricsHandler != nil {
		mux.Handle("/metrics", method(http.MethodGet, deps.MetricsHandler))
	}

	mux.Handle("/api/auth/signup", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Signup)))
	mux.Handle("/api/auth/login", method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Login)))

	authenticated := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Authenticate)
	}
	withSession := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Authenticate, deps.Session)
	}

	mux.Handle("/api/auth/logout", method(http.MethodPost, authenticated(deps.AuthHandlers.Logout)))
	mux.Handle("/api/auth/me", method(http.MethodGet, authenticated(deps.AuthHandlers.Me)))

	st := deps.StationsHandlers
	mux.Handle("/api/stations", methods(map[string]http.Handler{
		http.MethodGet:  withSession(st.List),
		http.MethodPost: withSession(st.Create),
	}))
	mux.Handle("/api/stations/refresh", method(http.MethodPost, withSession(st.Refresh)))
	mux.Handle("/api/stations/live", method(http.MethodGet, withSession(deps.LiveHandler)))
	mux.Handle("/api/stations/{id}", methods(map[string]http.Handler{
		http.MethodGet:    withSession(st.Get),
		http.MethodPatch:  withSession(st.Update),
		http.MethodDelete: withSession(st.Delete),
	}))

	mp := deps.MapHandlers
	mux.Handle("/api/map", method(http.MethodGet, withSession(mp.Page)))
	mux.Handle("/api/map/geojson", method(http.MethodGet, withSession(mp.GeoJSON)))
	mux.Handle("/api/map/select", method(http.MethodPost, withSession(mp.Select)))
	mux.Handle("/api/map/fit", method(http.MethodPost, withSession(mp.Fit)))
	mux.Handle("/api/map/zoom-in", method(http.MethodPost, withSession(mp.ZoomIn)))
	mux.Handle("/api/map/zoom-out", method(http.MethodPost, withSession(mp.ZoomOut)))
	mux.Handle("/api/map/recenter", method(http.MethodPost, withSession(mp.Recenter)))

	return mux
}

func method(expected string, handler http.Handler) http.Handler {
	return methods(map[string]http.Handler{expected: handler})
}

func methods(byMethod map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(byMethod))
	for m := range byMethod {
		allowed = append(allowed, m)
	}
	sort.Strings(allowed)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := byMethod[r.Method]
		if !ok && r.Method == http.MethodHead {
			handler, ok = byMethod[http.MethodGet]
		}
		if !ok {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
