// Package errors provides the typed application errors used across the
// identity service. Every failure a client can observe is an *AppError with a
// machine-readable code, a human-readable message, and the HTTP status the
// transport layer should answer with.
//
// The taxonomy is small on purpose:
//
//   - VALIDATION_ERROR       — malformed input (missing email, short password)
//   - AUTHENTICATION_FAILED  — credential and authorization failures
//   - TOKEN_ERROR            — malformed, expired, or revoked tokens
//
// plus the usual infrastructure codes (NOT_FOUND, ALREADY_EXISTS,
// INTERNAL_ERROR, DATABASE_ERROR) for surfaces below the domain.
package errors
