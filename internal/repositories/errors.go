package repositories

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a role, permission, user, or override
// lookup matches nothing. Callers that treat absence as benign (e.g.
// override removal) check for it with errors.Is.
var ErrNotFound = errors.New("not found")

// ValidationError is returned when a mutation references permission or
// role keys outside the catalog. It is raised before any store mutation
// is attempted.
type ValidationError struct {
	Message     string
	UnknownKeys []string // Offending permission keys, if any
}

func (e *ValidationError) Error() string {
	if len(e.UnknownKeys) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.UnknownKeys, ", "))
}

// NewValidationError creates a validation error for the given unknown keys.
func NewValidationError(message string, unknownKeys ...string) *ValidationError {
	return &ValidationError{Message: message, UnknownKeys: unknownKeys}
}
