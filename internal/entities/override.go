package entities

import (
	"fmt"
	"time"
)

// Override represents a per-user exception to role defaults
// Example: user:42 manage_users granted=true
// This means: user "42" holds "manage_users" regardless of role membership
//
// At most one active override exists per (user_id, permission) pair.
// Overrides are never edited in place: changing a decision replaces
// the record, and reverting to the role default destroys it.
type Override struct {
	ID         string // Record identifier (UUID)
	UserID     string // Account the exception applies to
	Permission string // Permission key from the catalog
	Granted    bool   // true = grant regardless of role, false = deny regardless of role
	Reason     string // Optional free text kept for the audit trail
	CreatedAt  time.Time
}

// String returns a string representation of the override
// Format: user_id#permission=granted|denied
func (o *Override) String() string {
	decision := "denied"
	if o.Granted {
		decision = "granted"
	}
	return fmt.Sprintf("%s#%s=%s", o.UserID, o.Permission, decision)
}

// Validate checks if the override is valid
func (o *Override) Validate() error {
	if o.UserID == "" {
		return fmt.Errorf("user ID is required")
	}
	if o.Permission == "" {
		return fmt.Errorf("permission is required")
	}
	return nil
}
