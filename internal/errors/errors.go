package errors

import (
	"errors"
	"net/http"
)

// Kind classifies a domain error. Every kind maps to exactly one HTTP status.
type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindConflict     Kind = "CONFLICT"
	KindAuth         Kind = "AUTH_ERROR"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// Error is a domain error carrying a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is reports a match against any error of the same kind, so callers can write
// errors.Is(err, errors.ErrNotFound) regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New creates a domain error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation creates a ValidationError.
func Validation(message string) *Error { return New(KindValidation, message) }

// Conflict creates a ConflictError.
func Conflict(message string) *Error { return New(KindConflict, message) }

// NotFound creates a NotFound error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

var (
	// Kind sentinels, usable as errors.Is targets.
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrAuth         = &Error{Kind: KindAuth}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
	ErrForbidden    = &Error{Kind: KindForbidden}
	ErrNotFound     = &Error{Kind: KindNotFound}

	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = New(KindAuth, "Invalid credentials")
	// ErrInvalidToken is returned when a bearer token fails verification.
	ErrInvalidToken = New(KindAuth, "Invalid or expired token")
	// ErrMissingToken is returned when a protected route is called without a bearer token.
	ErrMissingToken = New(KindUnauthorized, "Unauthorized")
	// ErrAdminOnly is returned when a non-admin calls an admin route.
	ErrAdminOnly = New(KindForbidden, "Forbidden")
	// ErrEmailTaken is returned on signup with an already registered email.
	ErrEmailTaken = New(KindConflict, "Email already in use")
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = New(KindNotFound, "User not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

var statusByKind = map[Kind]int{
	KindValidation:   http.StatusBadRequest,
	KindConflict:     http.StatusConflict,
	KindAuth:         http.StatusUnauthorized,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
}

// MapErrorToHTTP maps domain errors to HTTP errors. Anything that is not a
// domain error becomes a generic 500 so internal detail never reaches clients.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		if status, ok := statusByKind[domainErr.Kind]; ok {
			return NewHTTPError(status, domainErr.Message, string(domainErr.Kind))
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", string(KindInternal))
}
