package utils

import (
	"errors"
	"fmt"
)

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorConflict marks a precondition that a concurrent change has
	// already invalidated (car already sold, overlapping rental, stale
	// row position). Mapped to HTTP 409.
	ErrorConflict = errors.New("conflict")

	// ErrorValidation marks missing or malformed request fields. Mapped
	// to HTTP 400.
	ErrorValidation = errors.New("validation failed")
)

func NotFoundErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorRecordNotFound, fmt.Sprintf(format, args...))
}

func ConflictErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorConflict, fmt.Sprintf(format, args...))
}

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}
