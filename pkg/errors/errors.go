package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type AppError struct {
	Code    string
	Message string
	Status  int
	Err     error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code string, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    "BAD_REQUEST",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

func Network(message string, err error) *AppError {
	return &AppError{
		Code:    "NETWORK_ERROR",
		Message: message,
		Status:  0,
		Err:     err,
	}
}

func Payment(message string, err error) *AppError {
	return &AppError{
		Code:    "PAYMENT_ERROR",
		Message: message,
		Status:  http.StatusPaymentRequired,
		Err:     err,
	}
}

// Validation flattens a field-name-to-messages map into a single
// human-readable message, fields sorted and joined with " | ".
func Validation(fields map[string][]string, status int) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, strings.Join(fields[name], ", ")))
	}

	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: strings.Join(parts, " | "),
		Status:  status,
	}
}

// InvalidPage marks the expected error from probing past the last page of a
// paginated listing. It is filtered out of error logging.
func InvalidPage(err error) *AppError {
	return &AppError{
		Code:    "INVALID_PAGE",
		Message: "Invalid page.",
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

func Is(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsInvalidPage(err error) bool {
	return Is(err, "INVALID_PAGE")
}
