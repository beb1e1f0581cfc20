// Package client is the HTTP API client for the assignhub backend.
//
// # Overview
//
// The Client interface lists every backend call the interactive client
// makes. HTTPClient implements it over net/http; the bearer credential is
// attached by a RoundTripper that reads the current token from a
// TokenSource on each request. There is no token refresh: an expired or
// revoked token comes back as ErrUnauthorized and the caller drops its
// session.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx responses are
// *APIError values whose Message is safe to show the user (the body's
// "message" for 4xx, a generic text for 5xx). A 401 is ErrUnauthorized.
// Bodies that cannot be decoded into the expected shape fail with
// domain.ErrMalformedResponse.
//
// The package also bootstraps the local SQLite store used for the session
// (InitDatabase, RunMigrations).
package client
