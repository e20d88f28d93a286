package services

import (
	"errors"
	"fmt"

	"policereserves/roster/internal/db/repositories"
)

var (
	ErrNotFound             = repositories.ErrNotFound
	ErrAlreadySignedUp      = errors.New("already signed up")
	ErrNotSignedUp          = errors.New("not signed up")
	ErrEquipmentUnavailable = errors.New("equipment is already checked out")
	ErrEquipmentObsolete    = errors.New("equipment is obsolete")
	ErrAlreadyReturned      = errors.New("equipment already returned")
	ErrEquipmentInUse       = errors.New("equipment has assignment history")
	ErrPolicyNotViewed      = errors.New("policy has not been viewed")
	ErrDuplicate            = errors.New("duplicate record")
)

// ValidationError is returned for input the caller can fix. Message is safe
// to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}
