package entities

import "fmt"

// Role keys form a fixed, centrally administered enumeration.
// New roles are not created at runtime; only a role's permission
// membership changes, and only via a full replace.
const (
	RoleAdmin     = "ADMIN"
	RoleAnalyst   = "ANALYST"
	RoleEngineer  = "ENGINEER"
	RoleManager   = "MANAGER"
	RoleExecutive = "EXECUTIVE"
	RoleViewer    = "VIEWER"
)

// RoleKeys lists the fixed role enumeration in display order.
var RoleKeys = []string{
	RoleAdmin,
	RoleAnalyst,
	RoleEngineer,
	RoleManager,
	RoleExecutive,
	RoleViewer,
}

// Role represents a named bundle of default permissions
// Example: VIEWER grants {read_articles, view_dashboard}
type Role struct {
	Key         string        // One of the fixed role keys (e.g., "VIEWER")
	Label       string        // Human-readable name (e.g., "Viewer")
	Description string        // What the role is for
	Color       string        // Display color (hex, e.g., "#64748b")
	Permissions PermissionSet // Committed default permission membership
}

// IsValidRoleKey reports whether key is part of the fixed role enumeration.
func IsValidRoleKey(key string) bool {
	for _, k := range RoleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Validate checks if the role is valid
func (r *Role) Validate() error {
	if r.Key == "" {
		return fmt.Errorf("role key is required")
	}
	if !IsValidRoleKey(r.Key) {
		return fmt.Errorf("unknown role key: %s", r.Key)
	}
	return nil
}

// String returns a string representation of the role
// Format: key(n permissions)
func (r *Role) String() string {
	return fmt.Sprintf("%s(%d permissions)", r.Key, len(r.Permissions))
}
