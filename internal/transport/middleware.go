package transport

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/UnknownOlympus/geodist/internal/apierror"
	"github.com/UnknownOlympus/geodist/internal/metrics"
)

// Recover turns a panic in next into the 500 failure envelope.
// With withStack set, the goroutine stack is included in the response body.
// A panic after the response has started is only logged.
func Recover(log *slog.Logger, withStack bool) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				recovered := recover()
				if recovered == nil {
					return
				}
				if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(recovered)
				}

				stack := string(debug.Stack())
				log.ErrorContext(r.Context(), "Recovered from panic",
					"panic", recovered, "method", r.Method, "path", r.URL.Path,
					"response_started", rec.wroteHeader, "stack", stack)
				if rec.wroteHeader {
					return
				}

				failure := apierror.NewInternal()
				body := FailureResponse{Success: false, Error: failure.Message}
				if withStack {
					body.Stack = stack
				}
				if err := WriteJSON(w, failure.Status, body); err != nil {
					log.ErrorContext(r.Context(), "failed to write reply", "error", err)
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// RouteFunc names the route of a request for metric labels.
type RouteFunc func(r *http.Request) string

// Instrument logs every request and records its count and duration.
func Instrument(log *slog.Logger, appMetrics *metrics.Metrics, route RouteFunc) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(startTime)
			label := route(r)
			appMetrics.HTTPRequests.WithLabelValues(label, r.Method, strconv.Itoa(rec.status)).Inc()
			appMetrics.RequestSeconds.WithLabelValues(label).Observe(duration.Seconds())

			log.InfoContext(r.Context(), "Request served",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", duration,
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// NewHandler assembles the API: router, recovery and instrumentation.
// Requests with a non-canonical path get the 404 envelope instead of a redirect.
func NewHandler(log *slog.Logger, appMetrics *metrics.Metrics, routes Routes, withStack bool) http.Handler {
	mux := NewRouter(log, routes)
	routeOf := func(r *http.Request) string {
		if !hasCleanPath(r) {
			return catchAllPattern
		}
		_, pattern := mux.Handler(r)
		return pattern
	}

	var h http.Handler = cleanRoutes(mux, NotFound(log))
	h = Recover(log, withStack)(h)
	h = Instrument(log, appMetrics, routeOf)(h)
	return h
}
