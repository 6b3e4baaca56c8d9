package apperror

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrInternal          = errors.New("internal server error")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Account and authorization failures.
var (
	ErrDuplicateEmail      = errors.New("email already registered")
	ErrInvalidOrientor     = errors.New("orientor email does not belong to a professor")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInactiveAccount     = errors.New("account is not active")
	ErrAlreadyScholarship  = errors.New("user is already a scholarship student")
	ErrNotBolsista         = errors.New("user is not a scholarship student")
	ErrNotOrientor         = errors.New("professor is not the student's orientor")
	ErrAlreadyActive       = errors.New("account is already active")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUnsupportedFileType = errors.New("unsupported file type")
)

// AppError is a custom error type that can hold an HTTP status code
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

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

var statusBySentinel = []struct {
	err    error
	status int
}{
	{ErrNotFound, http.StatusNotFound},
	{ErrUnauthorized, http.StatusUnauthorized},
	{ErrInvalidCredentials, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotOrientor, http.StatusForbidden},
	{ErrInactiveAccount, http.StatusForbidden},
	{ErrDuplicateEmail, http.StatusConflict},
	{ErrBadRequest, http.StatusBadRequest},
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrInvalidOrientor, http.StatusBadRequest},
	{ErrAlreadyScholarship, http.StatusBadRequest},
	{ErrNotBolsista, http.StatusBadRequest},
	{ErrAlreadyActive, http.StatusBadRequest},
	{ErrInvalidToken, http.StatusBadRequest},
	{ErrUnsupportedFileType, http.StatusBadRequest},
	{ErrRateLimitExceeded, http.StatusTooManyRequests},
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	for _, entry := range statusBySentinel {
		if errors.Is(err, entry.err) {
			return entry.status
		}
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
