package entities

import "sort"

// PermissionSet is a duplicate-free set of permission keys.
// Role permission membership, editor pending/saved state, and resolved
// effective permissions are all values of this type; comparisons are
// always by set equality, never by slice order.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from a list of keys, dropping duplicates.
func NewPermissionSet(keys ...string) PermissionSet {
	s := make(PermissionSet, len(keys))
	for _, k := range keys {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether key is a member of the set.
func (s PermissionSet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Add inserts key into the set. No-op if already present.
func (s PermissionSet) Add(key string) {
	s[key] = struct{}{}
}

// Remove deletes key from the set. No-op if absent.
func (s PermissionSet) Remove(key string) {
	delete(s, key)
}

// Toggle flips membership of key and reports the new membership.
// Toggle is its own inverse: applying it twice restores the set.
func (s PermissionSet) Toggle(key string) bool {
	if s.Has(key) {
		s.Remove(key)
		return false
	}
	s.Add(key)
	return true
}

// Clone returns an independent copy of the set.
func (s PermissionSet) Clone() PermissionSet {
	c := make(PermissionSet, len(s))
	for k := range s {
		c[k] = struct{}{}
	}
	return c
}

// Equal reports whether two sets hold exactly the same keys.
func (s PermissionSet) Equal(other PermissionSet) bool {
	if len(s) != len(other) {
		return false
	}
	for k := range s {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// Keys returns the members in lexical order for deterministic output.
func (s PermissionSet) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
