// Package api provides an HTTP client for the remote storefront API.
//
// # Overview
//
// The client covers the product, category, user, and auth endpoints of a
// fake-store style REST API. It handles JSON encoding, bearer token
// injection, and the transparent refresh-and-retry flow on 401 responses.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept and Content-Type: application/json headers
//   - Carry a per-request X-Request-ID header
//   - Attach Authorization: Bearer {accessToken} when a token source is set
//   - Have a 15-second timeout by default
//
// # Auth Retry
//
// A 401 response triggers exactly one refresh attempt using the refresh
// token, after which the original request is replayed with the new access
// token. When the refresh itself fails the token source is cleared and
// ErrSessionExpired is returned so the caller can force re-authentication.
//
// # Error Handling
//
// HTTP error responses are returned as *Error carrying the server message,
// the status code, and the raw response body. Transport failures are
// wrapped with context using fmt.Errorf. Errors are never panicked into
// the caller.
package api
