// Package middleware provides HTTP middleware for the marketplace API.
//
// Components, in the order main chains them:
//
//   - RequestID: request identifier on the context and X-Request-ID header
//   - Logger: one structured log line per request
//   - Recovery: panics become the 500 envelope
//   - CORS: credentialed CORS for the configured origins
//   - Session: resolves the sid cookie into a user id, never rejects
//   - RateLimit: per-client token buckets (golang.org/x/time/rate)
//   - Compress: gzip for clients that accept it
//   - Metrics: Prometheus request counters, innermost around the mux
//
// Handlers read context values with GetRequestID and GetUserID.
package middleware
