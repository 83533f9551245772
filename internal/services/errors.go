package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned for missing rows and for rows outside the requester's scope.
	ErrNotFound = errors.New("resource not found")
	// ErrForbidden is returned when the requester may see a resource but not change it.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict is returned for uniqueness violations.
	ErrConflict = errors.New("conflict")
	// ErrInvalidTransition is returned for order status moves outside the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidCredentials is returned when an email/password pair does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports malformed or out-of-range input for one field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func forbidden(message string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, message)
}

func conflict(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// translate maps gorm sentinel errors onto service errors.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}
