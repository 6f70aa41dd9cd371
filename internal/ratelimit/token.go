package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// TokenStore is a token bucket per key. The bucket holds limit tokens and
// refills at limit per window, so bursts up to limit are admitted at once.
type TokenStore struct {
	mu           sync.Mutex
	entries      map[string]*tokenEntry
	rate         rate.Limit
	burst        int
	idleTTL      time.Duration
	cleanupEvery time.Duration
	now          func() time.Time
}

type tokenEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// TokenOption configures a TokenStore.
type TokenOption func(*TokenStore)

// WithIdleTTL sets how long an unused key is kept before the janitor drops it.
func WithIdleTTL(d time.Duration) TokenOption {
	return func(s *TokenStore) { s.idleTTL = d }
}

// WithTokenCleanupEvery sets the janitor period. Zero disables the janitor.
func WithTokenCleanupEvery(d time.Duration) TokenOption {
	return func(s *TokenStore) { s.cleanupEvery = d }
}

// WithTokenClock replaces time.Now, mostly for tests.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(s *TokenStore) { s.now = now }
}

// NewTokenStore creates a token bucket store refilling limit tokens per window
// with a burst of limit.
func NewTokenStore(window time.Duration, limit int, opts ...TokenOption) *TokenStore {
	every := rate.Inf
	if limit > 0 && window > 0 {
		every = rate.Every(window / time.Duration(limit))
	}

	s := &TokenStore{
		entries:      make(map[string]*tokenEntry),
		rate:         every,
		burst:        limit,
		idleTTL:      15 * time.Minute,
		cleanupEvery: 2 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the store in logs and metrics.
func (s *TokenStore) Name() string { return "token" }

// Take implements Store.
func (s *TokenStore) Take(_ context.Context, key string) (Decision, error) {
	now := s.now()
	lim := s.limiter(key, now)

	allowed := lim.AllowN(now, 1)
	tokens := lim.TokensAt(now)

	remaining := int(math.Floor(tokens))
	if remaining < 0 {
		remaining = 0
	}

	var resetAfter time.Duration
	if tokens < 1 && s.rate > 0 && s.rate != rate.Inf {
		resetAfter = time.Duration((1 - tokens) / float64(s.rate) * float64(time.Second))
	}

	return Decision{
		Allowed:    allowed,
		Limit:      s.burst,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}, nil
}

func (s *TokenStore) limiter(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ent, ok := s.entries[key]; ok {
		ent.lastSeen = now
		return ent.lim
	}

	lim := rate.NewLimiter(s.rate, s.burst)
	s.entries[key] = &tokenEntry{lim: lim, lastSeen: now}
	return lim
}

// Cleanup drops buckets that have not been used for the idle TTL.
func (s *TokenStore) Cleanup() {
	cutoff := s.now().Add(-s.idleTTL)

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, ent := range s.entries {
		if ent.lastSeen.Before(cutoff) {
			delete(s.entries, key)
		}
	}
}

// Len returns the number of tracked keys.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor periodically runs Cleanup until ctx is done.
func (s *TokenStore) StartJanitor(ctx context.Context) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}
