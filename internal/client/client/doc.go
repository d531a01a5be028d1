// Package client contains the transport layer of the lost-and-found CLI.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) with one
//     method per backend endpoint: auth, found items, lost reports, claims,
//     staff review and admin user management.
//  2. A REST implementation (see HTTPClient) that sends JSON to a base URL
//     carrying the /api prefix, attaches the bearer token unless it is a
//     locally expired JWT, keeps session cookies in a jar and tags every
//     request with an X-Request-ID.
//  3. Local persistence bootstrap utilities (InitDatabase, RunMigrations) for
//     the CLI, wiring an SQLite database and applying embedded goose
//     migrations.
//
// # Wire format
//
// Login, registration and email verification answer with
// {"message", "token", "user"}; the profile endpoints answer with {"user"};
// every other endpoint returns the resource (or array of resources) itself.
// Empty 2xx bodies are accepted.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the status and the server's
// "message" (or "error") field, falling back to "Request failed with status
// N". errors.Is matches 401/403 against ErrUnauthorized and 404 against
// ErrNotFound. Transport failures wrap ErrUnavailable. Requests are never
// retried.
package client
