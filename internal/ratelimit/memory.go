package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a fixed-window counter per key kept in process memory.
// A key's window opens on its first request and lasts for the configured duration.
type MemoryStore struct {
	mu           sync.Mutex
	windows      map[string]*fixedWindow
	window       time.Duration
	limit        int
	cleanupEvery time.Duration
	now          func() time.Time
}

type fixedWindow struct {
	count   int
	resetAt time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// WithMemoryCleanupEvery sets the janitor period. Zero disables the janitor.
func WithMemoryCleanupEvery(d time.Duration) MemoryOption {
	return func(s *MemoryStore) { s.cleanupEvery = d }
}

// NewMemoryStore creates a store admitting limit requests per key in every window.
func NewMemoryStore(window time.Duration, limit int, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		windows:      make(map[string]*fixedWindow),
		window:       window,
		limit:        limit,
		cleanupEvery: time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the store in logs and metrics.
func (s *MemoryStore) Name() string { return "memory" }

// Take implements Store.
func (s *MemoryStore) Take(_ context.Context, key string) (Decision, error) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	win, ok := s.windows[key]
	if !ok || !now.Before(win.resetAt) {
		win = &fixedWindow{resetAt: now.Add(s.window)}
		s.windows[key] = win
	}
	win.count++

	return newDecision(win.count, s.limit, win.resetAt.Sub(now)), nil
}

// Reset forgets the counter of key.
func (s *MemoryStore) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.windows, key)
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}

// Cleanup drops every window that has already ended.
func (s *MemoryStore) Cleanup() {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, win := range s.windows {
		if !now.Before(win.resetAt) {
			delete(s.windows, key)
		}
	}
}

// StartJanitor periodically runs Cleanup until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context) {
	startJanitor(ctx, s.cleanupEvery, s.Cleanup)
}

func startJanitor(ctx context.Context, every time.Duration, cleanup func()) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cleanup()
			}
		}
	}()
}
