// Package memory provides in-memory repository implementations used by
// service tests. They mirror the postgres repositories' semantics: typed
// not-found errors on lookups and active-only filtering in resolution
// queries.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type assignment struct {
	roleID       uuid.UUID
	formID       uuid.UUID
	permissionID uuid.UUID
}

type RBACRepository struct {
	mu          sync.RWMutex
	roles       map[uuid.UUID]*model.Role
	forms       map[uuid.UUID]*model.Form
	permissions map[uuid.UUID]*model.Permission
	assignments []assignment
	userRoles   map[uuid.UUID][]uuid.UUID
}

func NewRBACRepository() *RBACRepository {
	return &RBACRepository{
		roles:       make(map[uuid.UUID]*model.Role),
		forms:       make(map[uuid.UUID]*model.Form),
		permissions: make(map[uuid.UUID]*model.Permission),
		userRoles:   make(map[uuid.UUID][]uuid.UUID),
	}
}

// Assigned reports whether an association row exists for the pair,
// regardless of any referent's status.
func (r *RBACRepository) Assigned(roleID, formID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.assignments {
		if a.roleID == roleID && a.formID == formID {
			return true
		}
	}
	return false
}

func (r *RBACRepository) CreateRole(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()
	copied := *role
	r.roles[role.ID] = &copied
	return nil
}

func (r *RBACRepository) GetRole(_ context.Context, id uuid.UUID) (*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return nil, apperrors.NotFound("role", nil)
	}
	copied := *role
	return &copied, nil
}

func (r *RBACRepository) GetRoleByCode(_ context.Context, code string) (*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, role := range r.roles {
		if role.Code == code && role.Status.IsActive() {
			copied := *role
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("role", nil)
}

func (r *RBACRepository) UpdateRole(_ context.Context, role *model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[role.ID]; !ok {
		return fmt.Errorf("role not found")
	}
	role.UpdatedAt = time.Now()
	copied := *role
	r.roles[role.ID] = &copied
	return nil
}

func (r *RBACRepository) DeactivateRole(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[id]
	if !ok || !role.Status.IsActive() {
		return fmt.Errorf("role not found")
	}
	role.Status = model.StatusInactive
	role.UpdatedAt = time.Now()
	return nil
}

func (r *RBACRepository) ListRoles(_ context.Context, includeInactive bool) ([]*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var roles []*model.Role
	for _, role := range r.roles {
		if includeInactive || role.Status.IsActive() {
			copied := *role
			roles = append(roles, &copied)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Code < roles[j].Code })
	return roles, nil
}

func (r *RBACRepository) CreateForm(_ context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	form.ID = uuid.New()
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	copied := *form
	r.forms[form.ID] = &copied
	return nil
}

func (r *RBACRepository) GetForm(_ context.Context, id uuid.UUID) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	form, ok := r.forms[id]
	if !ok {
		return nil, apperrors.NotFound("form", nil)
	}
	copied := *form
	return &copied, nil
}

func (r *RBACRepository) GetFormByCode(_ context.Context, code string) (*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, form := range r.forms {
		if form.Code == code && form.Status.IsActive() {
			copied := *form
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("form", nil)
}

func (r *RBACRepository) UpdateForm(_ context.Context, form *model.Form) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.forms[form.ID]; !ok {
		return fmt.Errorf("form not found")
	}
	form.UpdatedAt = time.Now()
	copied := *form
	r.forms[form.ID] = &copied
	return nil
}

func (r *RBACRepository) DeactivateForm(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	form, ok := r.forms[id]
	if !ok || !form.Status.IsActive() {
		return fmt.Errorf("form not found")
	}
	form.Status = model.StatusInactive
	form.UpdatedAt = time.Now()
	return nil
}

func (r *RBACRepository) ListForms(_ context.Context, includeInactive bool) ([]*model.Form, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var forms []*model.Form
	for _, form := range r.forms {
		if includeInactive || form.Status.IsActive() {
			copied := *form
			forms = append(forms, &copied)
		}
	}
	sort.Slice(forms, func(i, j int) bool { return forms[i].Code < forms[j].Code })
	return forms, nil
}

func (r *RBACRepository) CreatePermission(_ context.Context, permission *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	permission.ID = uuid.New()
	permission.CreatedAt = time.Now()
	permission.UpdatedAt = time.Now()
	copied := *permission
	r.permissions[permission.ID] = &copied
	return nil
}

func (r *RBACRepository) GetPermission(_ context.Context, id uuid.UUID) (*model.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	permission, ok := r.permissions[id]
	if !ok {
		return nil, apperrors.NotFound("permission", nil)
	}
	copied := *permission
	return &copied, nil
}

func (r *RBACRepository) GetPermissionByName(_ context.Context, name string) (*model.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, permission := range r.permissions {
		if permission.Name == name && permission.Status.IsActive() {
			copied := *permission
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("permission", nil)
}

func (r *RBACRepository) UpdatePermission(_ context.Context, permission *model.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.permissions[permission.ID]; !ok {
		return fmt.Errorf("permission not found")
	}
	permission.UpdatedAt = time.Now()
	copied := *permission
	r.permissions[permission.ID] = &copied
	return nil
}

func (r *RBACRepository) DeactivatePermission(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	permission, ok := r.permissions[id]
	if !ok || !permission.Status.IsActive() {
		return fmt.Errorf("permission not found")
	}
	permission.Status = model.StatusInactive
	permission.UpdatedAt = time.Now()
	return nil
}

func (r *RBACRepository) ListPermissions(_ context.Context, includeInactive bool) ([]*model.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var permissions []*model.Permission
	for _, permission := range r.permissions {
		if includeInactive || permission.Status.IsActive() {
			copied := *permission
			permissions = append(permissions, &copied)
		}
	}
	sort.Slice(permissions, func(i, j int) bool { return permissions[i].Name < permissions[j].Name })
	return permissions, nil
}

func (r *RBACRepository) AssignPermission(_ context.Context, roleID, formID, permissionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, roleOK := r.roles[roleID]
	form, formOK := r.forms[formID]
	permission, permOK := r.permissions[permissionID]
	if !roleOK || !formOK || !permOK ||
		!role.Status.IsActive() || !form.Status.IsActive() || !permission.Status.IsActive() {
		return fmt.Errorf("role, form or permission is missing or inactive")
	}
	r.assignments = append(r.assignments, assignment{roleID: roleID, formID: formID, permissionID: permissionID})
	return nil
}

func (r *RBACRepository) RevokePermission(_ context.Context, roleID, formID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, a := range r.assignments {
		if a.roleID == roleID && a.formID == formID {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("permission not assigned to role")
}

func (r *RBACRepository) UpdateAssignment(_ context.Context, roleID, formID, permissionID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	permission, ok := r.permissions[permissionID]
	if !ok || !permission.Status.IsActive() {
		return fmt.Errorf("permission is missing or inactive")
	}
	for i, a := range r.assignments {
		if a.roleID == roleID && a.formID == formID {
			r.assignments[i].permissionID = permissionID
			return nil
		}
	}
	return fmt.Errorf("permission not assigned to role")
}

func (r *RBACRepository) ListRoleGrants(_ context.Context, roleID uuid.UUID) ([]*model.FormGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var grants []*model.FormGrant
	for _, a := range r.assignments {
		if a.roleID != roleID {
			continue
		}
		if grant := r.grantFor(a); grant != nil {
			grants = append(grants, grant)
		}
	}
	sort.Slice(grants, func(i, j int) bool { return grants[i].FormCode < grants[j].FormCode })
	return grants, nil
}

func (r *RBACRepository) AssignRoleToUser(_ context.Context, userID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.userRoles[userID] = append(r.userRoles[userID], roleID)
	return nil
}

func (r *RBACRepository) RemoveRoleFromUser(_ context.Context, userID, roleID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	roles := r.userRoles[userID]
	for i, id := range roles {
		if id == roleID {
			r.userRoles[userID] = append(roles[:i], roles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("role not assigned to user")
}

func (r *RBACRepository) ListUserRoles(_ context.Context, userID uuid.UUID) ([]*model.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var roles []*model.Role
	for _, roleID := range r.userRoles[userID] {
		if role, ok := r.roles[roleID]; ok && role.Status.IsActive() {
			copied := *role
			roles = append(roles, &copied)
		}
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i].Code < roles[j].Code })
	return roles, nil
}

func (r *RBACRepository) ListUserGrants(_ context.Context, userID uuid.UUID) ([]*model.FormGrant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var grants []*model.FormGrant
	for _, roleID := range r.userRoles[userID] {
		role, ok := r.roles[roleID]
		if !ok || !role.Status.IsActive() {
			continue
		}
		for _, a := range r.assignments {
			if a.roleID != roleID {
				continue
			}
			if grant := r.grantFor(a); grant != nil {
				grants = append(grants, grant)
			}
		}
	}
	return grants, nil
}

// grantFor materializes the joined row, dropping it if the form or bundle
// is missing or inactive. Callers hold the lock.
func (r *RBACRepository) grantFor(a assignment) *model.FormGrant {
	form, ok := r.forms[a.formID]
	if !ok || !form.Status.IsActive() {
		return nil
	}
	permission, ok := r.permissions[a.permissionID]
	if !ok || !permission.Status.IsActive() {
		return nil
	}
	return &model.FormGrant{
		FormCode:  form.Code,
		CanRead:   permission.CanRead,
		CanCreate: permission.CanCreate,
		CanUpdate: permission.CanUpdate,
		CanDelete: permission.CanDelete,
	}
}
