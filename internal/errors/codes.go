package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Domain errors
const (
	// ErrCodeValidation indicates malformed input.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeAuthenticationFailed indicates a credential or authorization failure.
	ErrCodeAuthenticationFailed ErrorCode = "AUTHENTICATION_FAILED"
	// ErrCodeTokenError indicates a malformed, expired, or revoked token.
	ErrCodeTokenError ErrorCode = "TOKEN_ERROR"
)

// Infrastructure errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrCodeDatabase indicates a database error.
	ErrCodeDatabase ErrorCode = "DATABASE_ERROR"
)
