package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// HTTPStatus is the HTTP status code the transport should respond with.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// --- Domain Error Constructors ---

// Validation creates an AppError for malformed input.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// MissingField creates an AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeValidation, Message: fmt.Sprintf("%s is required!", field),
		HTTPStatus: http.StatusBadRequest,
		Details:    map[string]any{"field": field},
	}
}

// AuthenticationFailed creates an AppError for a credential or
// authorization failure.
func AuthenticationFailed(reason string) *AppError {
	if reason == "" {
		reason = "authentication failed"
	}
	return &AppError{
		Code: ErrCodeAuthenticationFailed, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ProviderMismatch creates an AppError naming the provider that owns the
// email. The disclosure is deliberate: it steers legitimate users to the
// login method their account was created with.
func ProviderMismatch(provider string) *AppError {
	return &AppError{
		Code:       ErrCodeAuthenticationFailed,
		Message:    fmt.Sprintf("your email is registered as %s", provider),
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"provider": provider},
	}
}

// TokenError creates an AppError for a malformed, expired, or revoked token.
func TokenError(reason string) *AppError {
	if reason == "" {
		reason = "token is expired or invalid"
	}
	return &AppError{
		Code: ErrCodeTokenError, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
		Details:    map[string]any{"error_key": "bad_token"},
	}
}

// --- Infrastructure Error Constructors ---

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("the requested %s was not found", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// AlreadyExists creates an AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("a %s with these details already exists", resource),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"resource": resource},
	}
}

// Internal creates an AppError for an unexpected internal failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// Database creates an AppError for a storage failure.
func Database(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDatabase, Message: "a database error occurred",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
