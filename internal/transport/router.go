package transport

import (
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/UnknownOlympus/geodist/internal/apierror"
)

// DistancePath is the only computing endpoint of the API.
const DistancePath = "/api/v1/distance"

// catchAllPattern is the mux pattern answered with the 404 envelope.
const catchAllPattern = "/"

// Routes are the handlers mounted by NewRouter.
type Routes struct {
	Distance http.Handler
	// Docs serves the API documentation under /api-docs. Optional.
	Docs http.Handler
	// Limit wraps the distance route with admission control. Optional.
	Limit func(http.Handler) http.Handler
}

// NewRouter returns a mux that forwards GET /api/v1/distance to the distance
// handler and answers everything else with the 404 failure envelope.
func NewRouter(log *slog.Logger, routes Routes) *http.ServeMux {
	notFound := NotFound(log)

	distance := routes.Distance
	if routes.Limit != nil {
		distance = routes.Limit(distance)
	}
	distance = getOnly(distance, notFound)

	mux := http.NewServeMux()
	mux.Handle(DistancePath, distance)
	mux.Handle(DistancePath+"/{$}", distance)
	if routes.Docs != nil {
		mux.Handle("/api-docs", getOnly(routes.Docs, notFound))
		mux.Handle("/api-docs/", getOnly(routes.Docs, notFound))
	}
	mux.Handle(catchAllPattern, notFound)

	return mux
}

// NotFound returns a handler writing the route-not-found envelope.
func NotFound(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteFailure(w, apierror.NewRouteNotFound(r.Method, r.URL.RequestURI())); err != nil {
			log.ErrorContext(r.Context(), "failed to write reply", "error", err)
		}
	}
}

// cleanRoutes sends requests whose path is not canonical to notFound. Without it
// the mux would answer them with a redirect.
func cleanRoutes(next, notFound http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !hasCleanPath(r) {
			notFound.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// hasCleanPath reports whether the escaped request path is rooted and free of
// empty, "." and ".." segments. A trailing slash is allowed.
func hasCleanPath(r *http.Request) bool {
	escaped := r.URL.EscapedPath()
	if !strings.HasPrefix(escaped, "/") {
		return false
	}

	cleaned := path.Clean(escaped)
	if strings.HasSuffix(escaped, "/") && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned == escaped
}

func getOnly(next, notFound http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			notFound.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
