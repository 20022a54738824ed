package entities

import "fmt"

// User represents a platform account as this core consumes it.
// Accounts are owned and lifecycle-managed by the user service;
// authorization only needs the ID and the single assigned role.
type User struct {
	ID       string // Account identifier
	Username string
	Email    string
	Role     string // Exactly one role key from the fixed enumeration
}

// Validate checks if the user is valid
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	if u.Role == "" {
		return fmt.Errorf("user role is required")
	}
	if !IsValidRoleKey(u.Role) {
		return fmt.Errorf("unknown role key: %s", u.Role)
	}
	return nil
}
