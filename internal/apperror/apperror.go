// Package apperror defines the application's error taxonomy.
//
// Every failure the service layer can produce wraps exactly one of the
// sentinel errors below, so callers classify failures with errors.Is and
// never by string matching. The HTTP layer owns the mapping to status codes.
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("duplicate email")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrUnavailable        = errors.New("store unavailable")
)

// AppError pairs a sentinel (for errors.Is classification) with a
// human-readable message, plus the offending fields for validation errors.
type AppError struct {
	Err     error    // sentinel from the list above
	Message string   // human-readable error message
	Fields  []string // optional: fields causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that a resource does not exist.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports malformed or missing input. The caller can fix
// the listed fields and retry.
func ValidationFailed(message string, fields ...string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  fields,
	}
}

// MissingFields builds a validation error naming every empty required field.
func MissingFields(fields ...string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: fmt.Sprintf("missing required fields: %s", strings.Join(fields, ", ")),
		Fields:  fields,
	}
}

// InvalidCredentials reports a failed login. The message is deliberately
// non-specific: the caller must not learn whether the email, the password or
// the role was wrong (that would enable account enumeration).
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email, password, or role",
	}
}

// DuplicateEmail reports a registration conflict: the email already has an
// account in the target role partition.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "an account with this email already exists for this role",
	}
}

// Conflict reports a state conflict other than a duplicate email, e.g.
// applying twice to the same job.
func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden reports that the caller lacks permission for the resource.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unavailable reports a transient store failure. Safe to retry — no partial
// state was committed on this path. The underlying error is kept in the chain
// for logs but never shown to the client.
func Unavailable(op string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrUnavailable, op, cause),
		Message: "service temporarily unavailable, please try again",
	}
}
