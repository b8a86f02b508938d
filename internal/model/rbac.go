package model

import (
	"time"

	"github.com/google/uuid"
)

// RBAC model: a Role is granted a Permission bundle on a Form through the
// ternary role_form_permissions association. Effective access for a user is
// the OR-union of bundles over every active role assigned to them.

type Role struct {
	Base
	Code   string       `db:"code" json:"code"`
	Name   string       `db:"name" json:"name"`
	Status EntityStatus `db:"status" json:"status"`
}

// Form is a protectable resource: a screen or API surface that permissions
// attach to.
type Form struct {
	Base
	Code   string       `db:"code" json:"code"`
	Name   string       `db:"name" json:"name"`
	Status EntityStatus `db:"status" json:"status"`
}

// Permission is a named, reusable bundle of the four CRUD capability flags.
// Bundles are shared across associations so flag combinations don't
// proliferate.
type Permission struct {
	Base
	Name      string       `db:"name" json:"name"`
	CanRead   bool         `db:"can_read" json:"can_read"`
	CanCreate bool         `db:"can_create" json:"can_create"`
	CanUpdate bool         `db:"can_update" json:"can_update"`
	CanDelete bool         `db:"can_delete" json:"can_delete"`
	Status    EntityStatus `db:"status" json:"status"`
}

// RoleFormPermission binds exactly one permission bundle to a (role, form)
// pair.
type RoleFormPermission struct {
	RoleID       uuid.UUID `db:"role_id" json:"role_id"`
	FormID       uuid.UUID `db:"form_id" json:"form_id"`
	PermissionID uuid.UUID `db:"permission_id" json:"permission_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type UserRole struct {
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	RoleID    uuid.UUID `db:"role_id" json:"role_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PermissionAction is one of the four CRUD capabilities.
type PermissionAction string

const (
	ActionRead   PermissionAction = "read"
	ActionCreate PermissionAction = "create"
	ActionUpdate PermissionAction = "update"
	ActionDelete PermissionAction = "delete"
)

func (a PermissionAction) Valid() bool {
	switch a {
	case ActionRead, ActionCreate, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// PermissionSet is the effective CRUD grant on a single form after folding
// every applicable bundle together.
type PermissionSet struct {
	CanRead   bool `json:"can_read"`
	CanCreate bool `json:"can_create"`
	CanUpdate bool `json:"can_update"`
	CanDelete bool `json:"can_delete"`
}

// Merge ORs another bundle into the set; any active grant wins.
func (p PermissionSet) Merge(other PermissionSet) PermissionSet {
	return PermissionSet{
		CanRead:   p.CanRead || other.CanRead,
		CanCreate: p.CanCreate || other.CanCreate,
		CanUpdate: p.CanUpdate || other.CanUpdate,
		CanDelete: p.CanDelete || other.CanDelete,
	}
}

func (p PermissionSet) Allows(action PermissionAction) bool {
	switch action {
	case ActionRead:
		return p.CanRead
	case ActionCreate:
		return p.CanCreate
	case ActionUpdate:
		return p.CanUpdate
	case ActionDelete:
		return p.CanDelete
	}
	return false
}

// FormGrant is one row of the resolved (form, permission) view for a role
// or user.
type FormGrant struct {
	FormCode  string `db:"form_code" json:"form_code"`
	CanRead   bool   `db:"can_read" json:"can_read"`
	CanCreate bool   `db:"can_create" json:"can_create"`
	CanUpdate bool   `db:"can_update" json:"can_update"`
	CanDelete bool   `db:"can_delete" json:"can_delete"`
}

func (g FormGrant) Set() PermissionSet {
	return PermissionSet{
		CanRead:   g.CanRead,
		CanCreate: g.CanCreate,
		CanUpdate: g.CanUpdate,
		CanDelete: g.CanDelete,
	}
}
