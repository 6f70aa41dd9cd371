package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of counting one request against a key's limit.
type Decision struct {
	Allowed bool
	// Limit is the number of requests admitted per window.
	Limit int
	// Remaining is how many more requests the key may make in the current window.
	Remaining int
	// ResetAfter is the time until the current window ends (or a token frees up).
	ResetAfter time.Duration
}

// Store counts a request for key and decides whether it is admitted.
// Implementations must be safe for concurrent use and count every call exactly once.
type Store interface {
	Take(ctx context.Context, key string) (Decision, error)
	Name() string
}

func newDecision(count, limit int, resetAfter time.Duration) Decision {
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	if resetAfter < 0 {
		resetAfter = 0
	}
	return Decision{
		Allowed:    count <= limit,
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}
}
