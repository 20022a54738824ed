package entities

import "fmt"

// Permission represents one atomic capability in the platform catalog
// Example: key "manage_users" gates the user administration screens
// The catalog is provisioned at deploy time and treated as read-only
type Permission struct {
	Key         string // Stable unique identifier (e.g., "read_articles")
	Label       string // Human-readable name (e.g., "Read Articles")
	Description string // What the capability allows
	Group       string // Display category (e.g., "Core Access", "Administration")
}

// Validate checks if the permission is valid
func (p *Permission) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("permission key is required")
	}
	if p.Label == "" {
		return fmt.Errorf("permission label is required")
	}
	return nil
}

// String returns a string representation of the permission
// Format: group/key
func (p *Permission) String() string {
	return fmt.Sprintf("%s/%s", p.Group, p.Key)
}

// GroupPermissions buckets permissions by their display group.
// Permissions inside each group keep catalog order.
func GroupPermissions(perms []*Permission) map[string][]*Permission {
	grouped := make(map[string][]*Permission)
	for _, p := range perms {
		grouped[p.Group] = append(grouped[p.Group], p)
	}
	return grouped
}

// GroupNames returns the distinct group names in catalog order.
func GroupNames(perms []*Permission) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, p := range perms {
		if !seen[p.Group] {
			seen[p.Group] = true
			names = append(names, p.Group)
		}
	}
	return names
}
