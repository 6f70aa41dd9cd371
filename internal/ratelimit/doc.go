// Package ratelimit provides admission control for the HTTP API.
//
// A Store counts requests per client key and returns a Decision. Three stores
// are available:
//
//   - MemoryStore: fixed window per key, process local
//   - RedisStore: fixed window per key, shared through Redis
//   - TokenStore: token bucket per key using golang.org/x/time/rate
//
// Middleware extracts the client key (header, X-Forwarded-For or remote
// address), asks the store for a decision and answers 429 with the JSON failure
// envelope when the client is over its limit.
package ratelimit
