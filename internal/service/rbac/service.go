package rbac

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

const (
	resolvedTTL     = time.Minute
	cleanupInterval = 5 * time.Minute
)

type Service struct {
	repo     repository.RBACRepository
	auditor  *audit.Service
	resolved *gocache.Cache
}

func NewService(repo repository.RBACRepository, auditor *audit.Service) *Service {
	return &Service{
		repo:     repo,
		auditor:  auditor,
		resolved: gocache.New(resolvedTTL, cleanupInterval),
	}
}

// ResolvePermissions folds every grant reachable from the user's active
// roles into one CRUD set per form. Roles granting different flags on the
// same form combine with OR; there is no deny. A user with no grants gets
// an empty map, not an error.
func (s *Service) ResolvePermissions(ctx context.Context, userID uuid.UUID) (map[string]model.PermissionSet, error) {
	if cached, ok := s.resolved.Get(userID.String()); ok {
		return clonePermissions(cached.(map[string]model.PermissionSet)), nil
	}

	grants, err := s.repo.ListUserGrants(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user grants: %w", err)
	}

	perms := make(map[string]model.PermissionSet, len(grants))
	for _, grant := range grants {
		perms[grant.FormCode] = perms[grant.FormCode].Merge(grant.Set())
	}

	s.resolved.SetDefault(userID.String(), clonePermissions(perms))
	return perms, nil
}

// clonePermissions keeps cached maps private; callers get their own copy
// and cannot poison later resolutions by mutating the result.
func clonePermissions(perms map[string]model.PermissionSet) map[string]model.PermissionSet {
	out := make(map[string]model.PermissionSet, len(perms))
	for code, set := range perms {
		out[code] = set
	}
	return out
}

// HasPermission reports whether the user may perform action on the form.
// Missing users, forms or grants all resolve to false.
func (s *Service) HasPermission(ctx context.Context, userID uuid.UUID, formCode string, action model.PermissionAction) (bool, error) {
	if !action.Valid() {
		return false, nil
	}

	perms, err := s.ResolvePermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return perms[formCode].Allows(action), nil
}

func (s *Service) CreateRole(ctx context.Context, role *model.Role) error {
	if err := validateCoded(role.Code, role.Name); err != nil {
		return fmt.Errorf("invalid role: %w", err)
	}
	role.Status = model.StatusActive

	if err := s.repo.CreateRole(ctx, role); err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, "role", role.ID, role)
	return nil
}

func (s *Service) GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	return s.repo.GetRole(ctx, id)
}

func (s *Service) UpdateRole(ctx context.Context, role *model.Role) error {
	if role.Name == "" {
		return apperrors.BadRequest("role name is required")
	}

	if err := s.repo.UpdateRole(ctx, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionUpdate, "role", role.ID, role)
	return nil
}

// DeactivateRole soft-deletes the role. Association rows survive; the role
// simply stops contributing to every resolution until reactivated.
func (s *Service) DeactivateRole(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateRole(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate role: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionDelete, "role", id, nil)
	return nil
}

func (s *Service) ListRoles(ctx context.Context, includeInactive bool) ([]*model.Role, error) {
	return s.repo.ListRoles(ctx, includeInactive)
}

func (s *Service) CreateForm(ctx context.Context, form *model.Form) error {
	if err := validateCoded(form.Code, form.Name); err != nil {
		return fmt.Errorf("invalid form: %w", err)
	}
	form.Status = model.StatusActive

	if err := s.repo.CreateForm(ctx, form); err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, "form", form.ID, form)
	return nil
}

func (s *Service) GetForm(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	return s.repo.GetForm(ctx, id)
}

func (s *Service) UpdateForm(ctx context.Context, form *model.Form) error {
	if form.Name == "" {
		return apperrors.BadRequest("form name is required")
	}

	if err := s.repo.UpdateForm(ctx, form); err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionUpdate, "form", form.ID, form)
	return nil
}

func (s *Service) DeactivateForm(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivateForm(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate form: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionDelete, "form", id, nil)
	return nil
}

func (s *Service) ListForms(ctx context.Context, includeInactive bool) ([]*model.Form, error) {
	return s.repo.ListForms(ctx, includeInactive)
}

func (s *Service) CreatePermission(ctx context.Context, permission *model.Permission) error {
	if permission.Name == "" {
		return apperrors.BadRequest("permission name is required")
	}
	permission.Status = model.StatusActive

	if err := s.repo.CreatePermission(ctx, permission); err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, "permission", permission.ID, permission)
	return nil
}

func (s *Service) GetPermission(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	return s.repo.GetPermission(ctx, id)
}

func (s *Service) UpdatePermission(ctx context.Context, permission *model.Permission) error {
	if permission.Name == "" {
		return apperrors.BadRequest("permission name is required")
	}

	if err := s.repo.UpdatePermission(ctx, permission); err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionUpdate, "permission", permission.ID, permission)
	return nil
}

func (s *Service) DeactivatePermission(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeactivatePermission(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate permission: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionDelete, "permission", id, nil)
	return nil
}

func (s *Service) ListPermissions(ctx context.Context, includeInactive bool) ([]*model.Permission, error) {
	return s.repo.ListPermissions(ctx, includeInactive)
}

// AssignPermission binds a shared permission bundle to a (role, form) pair.
// All three referents must exist and be active.
func (s *Service) AssignPermission(ctx context.Context, roleID, formID, permissionID uuid.UUID) error {
	if err := s.checkAssignable(ctx, roleID, formID, permissionID); err != nil {
		return err
	}

	if err := s.repo.AssignPermission(ctx, roleID, formID, permissionID); err != nil {
		return fmt.Errorf("failed to assign permission: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionAssign, "role", roleID, map[string]interface{}{
		"form_id":       formID,
		"permission_id": permissionID,
	})
	return nil
}

func (s *Service) RevokePermission(ctx context.Context, roleID, formID uuid.UUID) error {
	if err := s.repo.RevokePermission(ctx, roleID, formID); err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionRevoke, "role", roleID, map[string]interface{}{
		"form_id": formID,
	})
	return nil
}

// UpdateAssignment swaps the bundle bound to an existing (role, form) pair.
func (s *Service) UpdateAssignment(ctx context.Context, roleID, formID, permissionID uuid.UUID) error {
	if err := s.checkAssignable(ctx, roleID, formID, permissionID); err != nil {
		return err
	}

	if err := s.repo.UpdateAssignment(ctx, roleID, formID, permissionID); err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionUpdate, "role", roleID, map[string]interface{}{
		"form_id":       formID,
		"permission_id": permissionID,
	})
	return nil
}

func (s *Service) ListRoleGrants(ctx context.Context, roleID uuid.UUID) ([]*model.FormGrant, error) {
	return s.repo.ListRoleGrants(ctx, roleID)
}

func (s *Service) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if !role.Status.IsActive() {
		return apperrors.BadRequest("cannot assign an inactive role")
	}

	if err := s.repo.AssignRoleToUser(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionAssign, "user", userID, map[string]interface{}{
		"role_id": roleID,
	})
	return nil
}

func (s *Service) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	if err := s.repo.RemoveRoleFromUser(ctx, userID, roleID); err != nil {
		return fmt.Errorf("failed to remove role: %w", err)
	}

	s.invalidate()
	s.audit(ctx, model.AuditActionRevoke, "user", userID, map[string]interface{}{
		"role_id": roleID,
	})
	return nil
}

func (s *Service) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error) {
	return s.repo.ListUserRoles(ctx, userID)
}

func (s *Service) checkAssignable(ctx context.Context, roleID, formID, permissionID uuid.UUID) error {
	role, err := s.repo.GetRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to get role: %w", err)
	}
	if !role.Status.IsActive() {
		return apperrors.BadRequest("role is inactive")
	}

	form, err := s.repo.GetForm(ctx, formID)
	if err != nil {
		return fmt.Errorf("failed to get form: %w", err)
	}
	if !form.Status.IsActive() {
		return apperrors.BadRequest("form is inactive")
	}

	permission, err := s.repo.GetPermission(ctx, permissionID)
	if err != nil {
		return fmt.Errorf("failed to get permission: %w", err)
	}
	if !permission.Status.IsActive() {
		return apperrors.BadRequest("permission is inactive")
	}
	return nil
}

func validateCoded(code, name string) error {
	if code == "" {
		return apperrors.BadRequest("code is required")
	}
	if name == "" {
		return apperrors.BadRequest("name is required")
	}
	return nil
}

// invalidate drops every cached resolution. Grant mutations are rare and
// admin-driven, so a full flush is simpler than per-user tracking.
func (s *Service) invalidate() {
	s.resolved.Flush()
}

func (s *Service) audit(ctx context.Context, action, entityType string, entityID uuid.UUID, changes interface{}) {
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, entityType, entityID, changes)
}
