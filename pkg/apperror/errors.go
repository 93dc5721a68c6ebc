package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingParameter   = errors.New("missing parameter")
	ErrMissingCredentials = errors.New("email and password required")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPrivilegeRequired  = errors.New("privileges required")
	ErrForbidden          = errors.New("unauthorized access")
	ErrNotFound           = errors.New("resource not found")
	ErrJobUnavailable     = errors.New("job not available")
	ErrConflict           = errors.New("conflict")
	ErrInvalidEnumValue   = errors.New("invalid enum value")
	ErrValidation         = errors.New("validation failed")
	ErrBadRequest         = errors.New("bad request")
	ErrRateLimitExceeded  = errors.New("rate limit exceeded")
	ErrStorageUnavailable = errors.New("file storage is not configured")
	ErrInternal           = errors.New("internal server error")
)

// AppError carries a client-facing message and, optionally, an explicit HTTP status.
// It unwraps to the sentinel it was built from so errors.Is keeps working.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap attaches a client-facing message to a sentinel; the status is derived from the sentinel.
func Wrap(err error, format string, args ...any) *AppError {
	return &AppError{
		Code:    statusForSentinel(err),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	return statusForSentinel(err)
}

func statusForSentinel(err error) int {
	switch {
	case errors.Is(err, ErrMissingParameter),
		errors.Is(err, ErrInvalidEnumValue),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrPrivilegeRequired),
		errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrJobUnavailable):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrRateLimitExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
