// Package common contains shared constants and sentinel errors used across
// the lost-and-found client components.
package common

// Local storage keys for the cached session. The values mirror the keys the
// browser front-ends keep in local storage.
const (
	CacheKeyUser  = "user"
	CacheKeyToken = "token"
)

// RequestIDHeaderName tags every outbound API request for server-side tracing.
const RequestIDHeaderName = "X-Request-ID"
