package ratelimit

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/geodist/internal/apierror"
	"github.com/UnknownOlympus/geodist/internal/metrics"
	"github.com/UnknownOlympus/geodist/internal/transport"
)

// DefaultMessage is answered with 429 when no message is configured.
const DefaultMessage = "Too many requests from this IP, please try again after a minute."

// KeyFunc extracts the client identity of a request.
type KeyFunc func(r *http.Request) string

// Options configure Middleware.
type Options struct {
	Store              Store
	Message            string
	KeyFn              KeyFunc
	KeyHeader          string
	TrustXForwardedFor bool
	// StandardHeaders adds RateLimit-Limit, RateLimit-Remaining and RateLimit-Reset.
	StandardHeaders bool
	Logger          *slog.Logger
	Metrics         *metrics.Metrics
}

// DefaultKeyFunc identifies the client by keyHeader when present, then by the
// first X-Forwarded-For entry when trusted, then by the remote address host.
func DefaultKeyFunc(keyHeader string, trustXFF bool) KeyFunc {
	return func(r *http.Request) string {
		if keyHeader != "" {
			if v := strings.TrimSpace(r.Header.Get(keyHeader)); v != "" {
				return v
			}
		}

		if trustXFF {
			if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
				first, _, _ := strings.Cut(xff, ",")
				if ip := strings.TrimSpace(first); ip != "" {
					return ip
				}
			}
		}

		host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
		if err == nil && host != "" {
			return host
		}
		if r.RemoteAddr != "" {
			return r.RemoteAddr
		}
		return "unknown"
	}
}

// Middleware admits at most the store's limit of requests per key and window.
// Rejected requests get the 429 failure envelope and never reach next.
// Store errors are logged and the request is admitted.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	if opts.Message == "" {
		opts.Message = DefaultMessage
	}
	if opts.KeyFn == nil {
		opts.KeyFn = DefaultKeyFunc(opts.KeyHeader, opts.TrustXForwardedFor)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		if opts.Store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := opts.KeyFn(r)

			dec, err := opts.Store.Take(ctx, key)
			if err != nil {
				opts.Logger.ErrorContext(ctx, "Rate limiter unavailable, admitting request",
					"store", opts.Store.Name(), "key", key, "error", err)
				opts.record("error")
				next.ServeHTTP(w, r)
				return
			}

			if opts.StandardHeaders {
				w.Header().Set("RateLimit-Limit", strconv.Itoa(dec.Limit))
				w.Header().Set("RateLimit-Remaining", strconv.Itoa(dec.Remaining))
				w.Header().Set("RateLimit-Reset", strconv.Itoa(ceilSeconds(dec.ResetAfter)))
			}

			if !dec.Allowed {
				opts.record("denied")
				opts.Logger.WarnContext(ctx, "Rate limit exceeded", "store", opts.Store.Name(), "key", key)

				retryAfter := ceilSeconds(dec.ResetAfter)
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				if err = transport.WriteFailure(w, apierror.NewRateLimited(opts.Message)); err != nil {
					opts.Logger.ErrorContext(ctx, "failed to write reply", "error", err)
				}
				return
			}

			opts.record("allowed")
			next.ServeHTTP(w, r)
		})
	}
}

func (o Options) record(decision string) {
	if o.Metrics == nil {
		return
	}
	o.Metrics.RateLimitDecisions.WithLabelValues(o.Store.Name(), decision).Inc()
}

func ceilSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
