package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *rbacRepository) CreateRole(ctx context.Context, role *model.Role) error {
	query := `
		INSERT INTO roles (id, code, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	role.ID = uuid.New()
	role.CreatedAt = time.Now()
	role.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		role.ID,
		role.Code,
		role.Name,
		role.Status,
		role.CreatedAt,
		role.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create role: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetRole(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM roles
		WHERE id = $1
	`
	var role model.Role
	if err := r.db.GetContext(ctx, &role, query, id); err != nil {
		return nil, wrapGetErr(err, "role")
	}
	return &role, nil
}

func (r *rbacRepository) GetRoleByCode(ctx context.Context, code string) (*model.Role, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM roles
		WHERE code = $1 AND status = $2
	`
	var role model.Role
	if err := r.db.GetContext(ctx, &role, query, code, model.StatusActive); err != nil {
		return nil, wrapGetErr(err, "role")
	}
	return &role, nil
}

func (r *rbacRepository) UpdateRole(ctx context.Context, role *model.Role) error {
	query := `
		UPDATE roles
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	role.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		role.Name,
		role.Status,
		role.UpdatedAt,
		role.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("role not found")
	}
	return nil
}

func (r *rbacRepository) DeactivateRole(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, "roles", "role", id)
}

func (r *rbacRepository) ListRoles(ctx context.Context, includeInactive bool) ([]*model.Role, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM roles
	`
	var args []interface{}
	if !includeInactive {
		query += " WHERE status = $1"
		args = append(args, model.StatusActive)
	}
	query += " ORDER BY code ASC"

	var roles []*model.Role
	if err := r.db.SelectContext(ctx, &roles, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (r *rbacRepository) CreateForm(ctx context.Context, form *model.Form) error {
	query := `
		INSERT INTO forms (id, code, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	form.ID = uuid.New()
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		form.ID,
		form.Code,
		form.Name,
		form.Status,
		form.CreatedAt,
		form.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create form: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetForm(ctx context.Context, id uuid.UUID) (*model.Form, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM forms
		WHERE id = $1
	`
	var form model.Form
	if err := r.db.GetContext(ctx, &form, query, id); err != nil {
		return nil, wrapGetErr(err, "form")
	}
	return &form, nil
}

func (r *rbacRepository) GetFormByCode(ctx context.Context, code string) (*model.Form, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM forms
		WHERE code = $1 AND status = $2
	`
	var form model.Form
	if err := r.db.GetContext(ctx, &form, query, code, model.StatusActive); err != nil {
		return nil, wrapGetErr(err, "form")
	}
	return &form, nil
}

func (r *rbacRepository) UpdateForm(ctx context.Context, form *model.Form) error {
	query := `
		UPDATE forms
		SET name = $1, status = $2, updated_at = $3
		WHERE id = $4
	`
	form.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		form.Name,
		form.Status,
		form.UpdatedAt,
		form.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update form: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("form not found")
	}
	return nil
}

func (r *rbacRepository) DeactivateForm(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, "forms", "form", id)
}

func (r *rbacRepository) ListForms(ctx context.Context, includeInactive bool) ([]*model.Form, error) {
	query := `
		SELECT id, code, name, status, created_at, updated_at
		FROM forms
	`
	var args []interface{}
	if !includeInactive {
		query += " WHERE status = $1"
		args = append(args, model.StatusActive)
	}
	query += " ORDER BY code ASC"

	var forms []*model.Form
	if err := r.db.SelectContext(ctx, &forms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	return forms, nil
}

func (r *rbacRepository) CreatePermission(ctx context.Context, permission *model.Permission) error {
	query := `
		INSERT INTO permissions (id, name, can_read, can_create, can_update,
			can_delete, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	permission.ID = uuid.New()
	permission.CreatedAt = time.Now()
	permission.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		permission.ID,
		permission.Name,
		permission.CanRead,
		permission.CanCreate,
		permission.CanUpdate,
		permission.CanDelete,
		permission.Status,
		permission.CreatedAt,
		permission.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create permission: %w", err)
	}
	return nil
}

func (r *rbacRepository) GetPermission(ctx context.Context, id uuid.UUID) (*model.Permission, error) {
	query := `
		SELECT id, name, can_read, can_create, can_update, can_delete, status,
			created_at, updated_at
		FROM permissions
		WHERE id = $1
	`
	var permission model.Permission
	if err := r.db.GetContext(ctx, &permission, query, id); err != nil {
		return nil, wrapGetErr(err, "permission")
	}
	return &permission, nil
}

func (r *rbacRepository) GetPermissionByName(ctx context.Context, name string) (*model.Permission, error) {
	query := `
		SELECT id, name, can_read, can_create, can_update, can_delete, status,
			created_at, updated_at
		FROM permissions
		WHERE name = $1 AND status = $2
	`
	var permission model.Permission
	if err := r.db.GetContext(ctx, &permission, query, name, model.StatusActive); err != nil {
		return nil, wrapGetErr(err, "permission")
	}
	return &permission, nil
}

func (r *rbacRepository) UpdatePermission(ctx context.Context, permission *model.Permission) error {
	query := `
		UPDATE permissions
		SET name = $1, can_read = $2, can_create = $3, can_update = $4,
			can_delete = $5, status = $6, updated_at = $7
		WHERE id = $8
	`
	permission.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		permission.Name,
		permission.CanRead,
		permission.CanCreate,
		permission.CanUpdate,
		permission.CanDelete,
		permission.Status,
		permission.UpdatedAt,
		permission.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update permission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("permission not found")
	}
	return nil
}

func (r *rbacRepository) DeactivatePermission(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, "permissions", "permission", id)
}

func (r *rbacRepository) ListPermissions(ctx context.Context, includeInactive bool) ([]*model.Permission, error) {
	query := `
		SELECT id, name, can_read, can_create, can_update, can_delete, status,
			created_at, updated_at
		FROM permissions
	`
	var args []interface{}
	if !includeInactive {
		query += " WHERE status = $1"
		args = append(args, model.StatusActive)
	}
	query += " ORDER BY name ASC"

	var permissions []*model.Permission
	if err := r.db.SelectContext(ctx, &permissions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

// AssignPermission re-verifies the referents inside the same transaction as
// the insert, so a concurrent deactivation cannot slip in between the
// service-level check and the write.
func (r *rbacRepository) AssignPermission(ctx context.Context, roleID, formID, permissionID uuid.UUID) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		referents := `
			SELECT
				(SELECT count(*) FROM roles WHERE id = $1 AND status = $4) +
				(SELECT count(*) FROM forms WHERE id = $2 AND status = $4) +
				(SELECT count(*) FROM permissions WHERE id = $3 AND status = $4)
		`
		var active int
		if err := tx.GetContext(ctx, &active, referents, roleID, formID, permissionID, model.StatusActive); err != nil {
			return fmt.Errorf("failed to check assignment referents: %w", err)
		}
		if active != 3 {
			return fmt.Errorf("role, form or permission is missing or inactive")
		}

		insert := `
			INSERT INTO role_form_permissions (role_id, form_id, permission_id, created_at)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := tx.ExecContext(ctx, insert, roleID, formID, permissionID, time.Now()); err != nil {
			return fmt.Errorf("failed to assign permission: %w", err)
		}
		return nil
	})
}

func (r *rbacRepository) RevokePermission(ctx context.Context, roleID, formID uuid.UUID) error {
	query := `
		DELETE FROM role_form_permissions
		WHERE role_id = $1 AND form_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, roleID, formID)
	if err != nil {
		return fmt.Errorf("failed to revoke permission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("permission not assigned to role")
	}
	return nil
}

func (r *rbacRepository) UpdateAssignment(ctx context.Context, roleID, formID, permissionID uuid.UUID) error {
	return WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		check := `SELECT count(*) FROM permissions WHERE id = $1 AND status = $2`
		var active int
		if err := tx.GetContext(ctx, &active, check, permissionID, model.StatusActive); err != nil {
			return fmt.Errorf("failed to check permission: %w", err)
		}
		if active == 0 {
			return fmt.Errorf("permission is missing or inactive")
		}

		update := `
			UPDATE role_form_permissions
			SET permission_id = $1
			WHERE role_id = $2 AND form_id = $3
		`
		result, err := tx.ExecContext(ctx, update, permissionID, roleID, formID)
		if err != nil {
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return fmt.Errorf("permission not assigned to role")
		}
		return nil
	})
}

func (r *rbacRepository) ListRoleGrants(ctx context.Context, roleID uuid.UUID) ([]*model.FormGrant, error) {
	query := `
		SELECT f.code AS form_code, p.can_read, p.can_create, p.can_update, p.can_delete
		FROM role_form_permissions rfp
		JOIN forms f ON f.id = rfp.form_id AND f.status = $2
		JOIN permissions p ON p.id = rfp.permission_id AND p.status = $2
		WHERE rfp.role_id = $1
		ORDER BY f.code ASC
	`
	var grants []*model.FormGrant
	if err := r.db.SelectContext(ctx, &grants, query, roleID, model.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list role grants: %w", err)
	}
	return grants, nil
}

func (r *rbacRepository) AssignRoleToUser(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `
		INSERT INTO user_roles (user_id, role_id, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.db.ExecContext(ctx, query, userID, roleID, time.Now())
	if err != nil {
		return fmt.Errorf("failed to assign role to user: %w", err)
	}
	return nil
}

func (r *rbacRepository) RemoveRoleFromUser(ctx context.Context, userID, roleID uuid.UUID) error {
	query := `
		DELETE FROM user_roles
		WHERE user_id = $1 AND role_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, userID, roleID)
	if err != nil {
		return fmt.Errorf("failed to remove role from user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("role not assigned to user")
	}
	return nil
}

func (r *rbacRepository) ListUserRoles(ctx context.Context, userID uuid.UUID) ([]*model.Role, error) {
	query := `
		SELECT r.id, r.code, r.name, r.status, r.created_at, r.updated_at
		FROM roles r
		JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND r.status = $2
		ORDER BY r.code ASC
	`
	var roles []*model.Role
	if err := r.db.SelectContext(ctx, &roles, query, userID, model.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list user roles: %w", err)
	}
	return roles, nil
}

// ListUserGrants returns every (form, bundle) row reachable from the user's
// active roles through active associations. Inactive roles, forms and
// bundles drop out of the join; folding rows into one set per form is the
// service's job.
func (r *rbacRepository) ListUserGrants(ctx context.Context, userID uuid.UUID) ([]*model.FormGrant, error) {
	query := `
		SELECT f.code AS form_code, p.can_read, p.can_create, p.can_update, p.can_delete
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id AND r.status = $2
		JOIN role_form_permissions rfp ON rfp.role_id = r.id
		JOIN forms f ON f.id = rfp.form_id AND f.status = $2
		JOIN permissions p ON p.id = rfp.permission_id AND p.status = $2
		WHERE ur.user_id = $1
	`
	var grants []*model.FormGrant
	if err := r.db.SelectContext(ctx, &grants, query, userID, model.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list user grants: %w", err)
	}
	return grants, nil
}

func (r *rbacRepository) deactivate(ctx context.Context, table, resource string, id uuid.UUID) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, table)

	result, err := r.db.ExecContext(ctx, query, model.StatusInactive, time.Now(), id, model.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate %s: %w", resource, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found", resource)
	}
	return nil
}
