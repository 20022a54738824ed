package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/threatlens/authcore/internal/entities"
)

// EditorState is the lifecycle state of a RoleEditor
type EditorState string

const (
	// EditorClean means pending equals saved; nothing to commit
	EditorClean EditorState = "clean"
	// EditorDirty means pending differs from saved as a set
	EditorDirty EditorState = "dirty"
	// EditorSaving means a save is in flight
	EditorSaving EditorState = "saving"
)

// RoleEditor manages the pending-vs-saved lifecycle for bulk edits of one
// role's permission set. It holds a local optimistic working copy with an
// explicit commit/discard pair (Save/Reset); dirtiness is always decided
// by set equality, never by edit order or count.
//
// Editors of the same role hold independent state and do not coordinate:
// whichever saves last wins at the granularity of the whole permission
// list. There is no version token to detect a concurrent external save.
type RoleEditor struct {
	mu       sync.Mutex
	registry RoleServiceInterface
	roleKey  string
	pending  entities.PermissionSet
	saved    entities.PermissionSet
	state    EditorState
}

// NewRoleEditor opens an editor on the role's current committed
// permission set. Both pending and saved start as that set.
func NewRoleEditor(ctx context.Context, registry RoleServiceInterface, roleKey string) (*RoleEditor, error) {
	role, err := registry.GetRole(ctx, roleKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open editor for role %s: %w", roleKey, err)
	}

	return &RoleEditor{
		registry: registry,
		roleKey:  roleKey,
		pending:  role.Permissions.Clone(),
		saved:    role.Permissions.Clone(),
		state:    EditorClean,
	}, nil
}

// RoleKey returns the role this editor is bound to
func (e *RoleEditor) RoleKey() string {
	return e.roleKey
}

// State returns the current lifecycle state
func (e *RoleEditor) State() EditorState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// IsDirty reports whether pending differs from saved as a set
func (e *RoleEditor) IsDirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.pending.Equal(e.saved)
}

// Pending returns a copy of the local working set
func (e *RoleEditor) Pending() entities.PermissionSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending.Clone()
}

// Saved returns a copy of the last committed set
func (e *RoleEditor) Saved() entities.PermissionSet {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saved.Clone()
}

// Toggle flips membership of the permission in the pending set and
// reports the new membership. Toggling is its own inverse, so a sequence
// of toggles that restores set equality transitions back to Clean.
func (e *RoleEditor) Toggle(permission string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == EditorSaving {
		return false, fmt.Errorf("cannot toggle while save is in flight")
	}

	member := e.pending.Toggle(permission)
	e.recomputeState()
	return member, nil
}

// Reset discards local edits: pending becomes saved again
func (e *RoleEditor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == EditorSaving {
		return
	}

	e.pending = e.saved.Clone()
	e.state = EditorClean
}

// Save commits the pending set through the registry's full replace.
// On success both pending and saved become the new authoritative value.
// On failure pending is left untouched so the caller's edits survive,
// the error is surfaced, and dirtiness is exactly what it was before the
// call; retry is simply calling Save again, which is idempotent because
// the commit is a full replace.
func (e *RoleEditor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state == EditorSaving {
		e.mu.Unlock()
		return fmt.Errorf("save already in flight for role %s", e.roleKey)
	}
	e.state = EditorSaving
	snapshot := e.pending.Clone()
	e.mu.Unlock()

	err := e.registry.ReplacePermissions(ctx, e.roleKey, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		e.recomputeState()
		return fmt.Errorf("failed to save role %s: %w", e.roleKey, err)
	}

	e.saved = snapshot
	e.recomputeState()
	return nil
}

// recomputeState sets Clean or Dirty from set equality. Caller holds mu.
func (e *RoleEditor) recomputeState() {
	if e.pending.Equal(e.saved) {
		e.state = EditorClean
	} else {
		e.state = EditorDirty
	}
}
