package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrLinkNotFound signals that no link is stored under the requested code.
	ErrLinkNotFound = errors.New("link not found")

	// ErrCodeConflict is returned by the store when the short code is already taken.
	ErrCodeConflict = errors.New("short code already exists")

	// ErrExhaustedRetries matches every ExhaustedRetriesError.
	ErrExhaustedRetries = errors.New("no free short code found")

	// ErrStorageTimeout marks storage calls that hit a deadline.
	ErrStorageTimeout = errors.New("storage timeout")

	// ErrUnauthenticated is returned by identity suppliers for missing or bad credentials.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError describes user-correctable input problems.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// ExhaustedRetriesError is returned when every allocation attempt collided.
// It points at a code space that is too small, not at a transient condition.
// Conflicts stay out of its chain: they are absorbed by the retry loop.
type ExhaustedRetriesError struct {
	Attempts int
}

func (e *ExhaustedRetriesError) Error() string {
	return fmt.Sprintf("no free short code after %d attempts", e.Attempts)
}

func (e *ExhaustedRetriesError) Is(target error) bool {
	return target == ErrExhaustedRetries
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// GetValidationError extracts the ValidationError from err, or nil.
func GetValidationError(err error) *ValidationError {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr
	}
	return nil
}
