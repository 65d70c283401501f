package domain

import "errors"

// Sentinel errors shared across the core. The HTTP layer maps them to status
// codes in one place; services never pick status codes themselves.
var (
	// Token codec failures. The authentication gate collapses all three to a
	// uniform 401 and keeps the specific reason for logging only.
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrWrongTokenKind = errors.New("wrong token kind")

	// ErrUnauthenticated means no valid identity on a protected resource.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrInvalidCredentials is deliberately uniform: unknown username and
	// wrong password are indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrForbidden means the identity is known but the action is not allowed.
	// Never collapsed with ErrUnauthenticated (403 vs 401).
	ErrForbidden = errors.New("access forbidden")

	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// ValidationError carries field-level problems with registration or update
// input. It maps to 400 at the HTTP layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return field + ": " + msg
	}
	return "validation failed"
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
