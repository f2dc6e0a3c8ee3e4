// Package apperror defines a centralized system for application-specific errors.
// Every error the service layers surface to a handler is an *AppError, so the
// HTTP layer can map it to a status code and a consistent JSON envelope
// without inspecting error strings.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Canonical response messages, shared across the API surface.
const (
	AuthenticationMessage = "Authentication Error"
	NotFoundMessage       = "Not Found"
	NotUniqueMessage      = "Already Taken"
	InternalMessage       = "Internal Server Error"
)

// ErrorType defines the category of an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the data store.
	DatabaseError
	// AuthError represents an authentication failure (missing or bad credentials).
	AuthError
	// NotFoundError represents a missing entity.
	NotFoundError
	// ValidationError represents malformed input, carrying field-level detail.
	ValidationError
	// BadRequestError represents a generic bad request (e.g. an unreadable body).
	BadRequestError
	// ConflictError represents a unique-constraint violation.
	ConflictError
	// InternalError represents anything unanticipated.
	InternalError
)

// FieldError describes a single failed validation rule, in the shape the
// API has always returned: the offending parameter, where it came from,
// and a short message.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param"`
	Location string `json:"location"`
}

// AppError is the application's error type. It wraps an optional underlying
// error for debugging and, for validation failures, a list of field errors.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Details []FieldError

	// status overrides the type-derived HTTP status when non-zero. Validation
	// failures surface with different codes per endpoint (400 on registration,
	// 401 on login, 422 on article creation), so the type alone cannot decide.
	status int
}

// Error returns the string representation, satisfying the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so errors.Is/As can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error.
func (e *AppError) StatusCode() int {
	if e.status != 0 {
		return e.status
	}
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError:
		return http.StatusBadRequest
	case BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		// Duplicate keys surface as 422 with "Already Taken", matching the
		// unique-validator contract of the API.
		return http.StatusUnprocessableEntity
	case DatabaseError, InternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates a new AppError with an explicit type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{Type: errType, Message: message, Err: underlying}
}

// NewAuthError creates an authentication error (401 "Authentication Error").
func NewAuthError(underlying error) *AppError {
	return NewAppError(AuthError, AuthenticationMessage, underlying)
}

// NewNotFoundError creates a missing-entity error (404 "Not Found").
func NewNotFoundError(underlying error) *AppError {
	return NewAppError(NotFoundError, NotFoundMessage, underlying)
}

// NewConflictError creates a unique-violation error (422 "Already Taken").
func NewConflictError(underlying error) *AppError {
	return NewAppError(ConflictError, NotUniqueMessage, underlying)
}

// NewValidationError creates a validation error carrying field-level details.
// The status comes from the call site because the API reports validation
// failures with endpoint-specific codes.
func NewValidationError(status int, details []FieldError) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: "validation failed",
		Details: details,
		status:  status,
	}
}

// NewBadRequestError creates a generic bad-request error.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewDatabaseError creates a data-store error.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewInternalError creates a generic internal error.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// ErrorResponse is the JSON envelope for every error response. Errors holds
// either a message string or, for validation failures, the field-error list.
type ErrorResponse struct {
	Errors interface{} `json:"errors"`
}

// ToResponse converts an AppError to its client-facing representation. Only
// the user-facing message or detail list is included, never the wrapped error.
func (e *AppError) ToResponse() ErrorResponse {
	if len(e.Details) > 0 {
		return ErrorResponse{Errors: e.Details}
	}
	return ErrorResponse{Errors: e.Message}
}

// FromError attempts to convert a generic error to an *AppError.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	ok := errors.As(err, &ae)
	return ae, ok
}

// IsNotFound checks whether an error in the chain is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError checks whether an error in the chain is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsConflict checks whether an error in the chain is a ConflictError.
func IsConflict(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}

// IsValidationError checks whether an error in the chain is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}
