// Package errors holds the error codes shared by the back-office packages.
// Import it as ierr to keep the standard library name free.
package errors

import (
	"fmt"
	"net/http"

	"github.com/cockroachdb/errors"
)

var (
	ErrNotFound         = newInternal(ErrCodeNotFound, "resource not found")
	ErrValidation       = newInternal(ErrCodeValidation, "validation error")
	ErrInvalidOperation = newInternal(ErrCodeInvalidOperation, "invalid operation")
	ErrPermissionDenied = newInternal(ErrCodePermissionDenied, "permission denied")
	ErrUnauthenticated  = newInternal(ErrCodeUnauthenticated, "authentication required")
	ErrDatabase         = newInternal(ErrCodeDatabase, "database error")
	ErrSystem           = newInternal(ErrCodeSystemError, "system error")

	// checked in order, most specific first
	statusCodes = []struct {
		err    error
		status int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidOperation, http.StatusBadRequest},
		{ErrPermissionDenied, http.StatusForbidden},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrDatabase, http.StatusInternalServerError},
		{ErrSystem, http.StatusInternalServerError},
	}
)

const (
	ErrCodeNotFound         = "not_found"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"
	ErrCodePermissionDenied = "permission_denied"
	ErrCodeUnauthenticated  = "unauthenticated"
	ErrCodeDatabase         = "database_error"
	ErrCodeSystemError      = "system_error"
)

// InternalError is a sentinel carrying a machine-readable code.
type InternalError struct {
	Code    string
	Message string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newInternal(code, message string) *InternalError {
	return &InternalError{Code: code, Message: message}
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsDatabase(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// Code returns the code of the first sentinel err is marked with,
// or ErrCodeSystemError.
func Code(err error) string {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.err.(*InternalError).Code
		}
	}
	return ErrCodeSystemError
}

// HTTPStatusFromErr maps a marked error to its HTTP status.
func HTTPStatusFromErr(err error) int {
	for _, sc := range statusCodes {
		if errors.Is(err, sc.err) {
			return sc.status
		}
	}
	return http.StatusInternalServerError
}
