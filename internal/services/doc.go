// Package services defines shared utilities consumed by the session
// runner and the backend client.
//
// Key responsibilities:
//   - Context helpers that stamp session, job, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that classify
//     failures (unreachable vs rejected vs missing vs transient) so
//     retry loops and user-facing messages stay consistent.
//
// Use these helpers when wiring new backend operations so error handling
// and observability stay uniform across the client.
package services
