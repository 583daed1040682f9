// Package client talks to the petadopt REST backend.
//
// # Overview
//
// The package provides:
//  1. Gateway, the single place outbound HTTP requests go through. It
//     resolves paths against the API base URL, attaches the bearer token of
//     the current session, tags each request with an X-Request-ID and turns
//     non-2xx replies into *APIError. A 401 reply invalidates the session and
//     sends the user to the login entry point through a Navigator.
//  2. A typed API contract (see the Client interface) with one method per
//     backend endpoint, implemented over Gateway by RESTClient.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring the
//     sqlite file and applying embedded goose migrations.
//
// # Error Handling
//
// Sentinels ErrUnavailable, ErrUnauthorized and ErrLocalDataNotAvailable
// are matched with errors.Is; *APIError is matched with errors.As and
// unwraps to ErrUnauthorized for 401 and common.ErrNotFound for 404.
// MessageOf reduces any error to the single line shown to the user.
//
// Concurrency & Contexts
//
// Gateway and RESTClient are safe for concurrent use. Every call takes a
// context.Context and honors cancellation.
package client
