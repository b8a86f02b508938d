package rbac

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
)

func newTestService(t *testing.T) (*Service, *memory.RBACRepository) {
	t.Helper()
	repo := memory.NewRBACRepository()
	return NewService(repo, audit.NewService(memory.NewAuditRepository())), repo
}

func seedRole(t *testing.T, svc *Service, code string) *model.Role {
	t.Helper()
	role := &model.Role{Code: code, Name: code}
	require.NoError(t, svc.CreateRole(context.Background(), role))
	return role
}

func seedForm(t *testing.T, svc *Service, code string) *model.Form {
	t.Helper()
	form := &model.Form{Code: code, Name: code}
	require.NoError(t, svc.CreateForm(context.Background(), form))
	return form
}

func seedPermission(t *testing.T, svc *Service, name string, set model.PermissionSet) *model.Permission {
	t.Helper()
	perm := &model.Permission{
		Name:      name,
		CanRead:   set.CanRead,
		CanCreate: set.CanCreate,
		CanUpdate: set.CanUpdate,
		CanDelete: set.CanDelete,
	}
	require.NoError(t, svc.CreatePermission(context.Background(), perm))
	return perm
}

func TestHasPermission_GrantAndAbsence(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "appointments")
	perm := seedPermission(t, svc, "read_only", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	ok, err := svc.HasPermission(ctx, userID, "appointments", model.ActionRead)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.HasPermission(ctx, userID, "appointments", model.ActionCreate)
	require.NoError(t, err)
	assert.False(t, ok)

	// unknown form and unknown user are plain "no", never an error
	ok, err = svc.HasPermission(ctx, userID, "settings", model.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.HasPermission(ctx, uuid.New(), "appointments", model.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResolvePermissions_UnionAcrossRoles(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	reader := seedRole(t, svc, "reader")
	creator := seedRole(t, svc, "creator")
	form := seedForm(t, svc, "pqrs")
	readPerm := seedPermission(t, svc, "pqr_read", model.PermissionSet{CanRead: true})
	createPerm := seedPermission(t, svc, "pqr_create", model.PermissionSet{CanCreate: true})

	require.NoError(t, svc.AssignPermission(ctx, reader.ID, form.ID, readPerm.ID))
	require.NoError(t, svc.AssignPermission(ctx, creator.ID, form.ID, createPerm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, reader.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, creator.ID))

	perms, err := svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)
	require.Contains(t, perms, "pqrs")
	assert.True(t, perms["pqrs"].CanRead)
	assert.True(t, perms["pqrs"].CanCreate)
	assert.False(t, perms["pqrs"].CanUpdate)
	assert.False(t, perms["pqrs"].CanDelete)
}

func TestHasPermission_DeactivatedRoleNarrowsAccess(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "clients")
	perm := seedPermission(t, svc, "client_rw", model.PermissionSet{CanRead: true, CanCreate: true})

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	ok, err := svc.HasPermission(ctx, userID, "clients", model.ActionRead)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, svc.DeactivateRole(ctx, role.ID))

	for _, action := range []model.PermissionAction{model.ActionRead, model.ActionCreate} {
		ok, err := svc.HasPermission(ctx, userID, "clients", action)
		require.NoError(t, err)
		assert.False(t, ok, "action %s should be denied after role deactivation", action)
	}

	// the association row itself is untouched
	assert.True(t, repo.Assigned(role.ID, form.ID))
}

func TestHasPermission_DeactivatedFormAndPermission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "branches")
	perm := seedPermission(t, svc, "branch_read", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	require.NoError(t, svc.DeactivateForm(ctx, form.ID))
	ok, err := svc.HasPermission(ctx, userID, "branches", model.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)

	// reactivate the form, deactivate the bundle instead
	form.Status = model.StatusActive
	require.NoError(t, svc.UpdateForm(ctx, form))
	require.NoError(t, svc.DeactivatePermission(ctx, perm.ID))

	ok, err = svc.HasPermission(ctx, userID, "branches", model.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateAssignment_SwapsBundle(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "supervisor")
	form := seedForm(t, svc, "holidays")
	readOnly := seedPermission(t, svc, "holiday_read", model.PermissionSet{CanRead: true})
	full := seedPermission(t, svc, "holiday_full", model.PermissionSet{CanRead: true, CanCreate: true, CanUpdate: true, CanDelete: true})

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, readOnly.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	ok, err := svc.HasPermission(ctx, userID, "holidays", model.ActionDelete)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, svc.UpdateAssignment(ctx, role.ID, form.ID, full.ID))

	ok, err = svc.HasPermission(ctx, userID, "holidays", model.ActionDelete)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRevokePermission(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "settings")
	perm := seedPermission(t, svc, "setting_read", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))
	require.NoError(t, svc.RevokePermission(ctx, role.ID, form.ID))

	ok, err := svc.HasPermission(ctx, userID, "settings", model.ActionRead)
	require.NoError(t, err)
	assert.False(t, ok)

	// revoking again reports the missing association
	assert.Error(t, svc.RevokePermission(ctx, role.ID, form.ID))
}

func TestAssignPermission_RejectsInactiveReferents(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "reports")
	perm := seedPermission(t, svc, "report_read", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.DeactivateRole(ctx, role.ID))
	assert.Error(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
}

func TestResolvePermissions_ResultIsCallerOwned(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "appointments")
	perm := seedPermission(t, svc, "read_only", model.PermissionSet{CanRead: true})
	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	perms, err := svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)

	// mutating the returned map must not leak into later resolutions
	perms["appointments"] = model.PermissionSet{CanRead: true, CanDelete: true}
	perms["settings"] = model.PermissionSet{CanUpdate: true}

	again, err := svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, model.PermissionSet{CanRead: true}, again["appointments"])
	assert.NotContains(t, again, "settings")

	ok, err := svc.HasPermission(ctx, userID, "appointments", model.ActionDelete)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAssignPermission_StorageGuardsReferents(t *testing.T) {
	// writes issued directly against storage are still refused once a
	// referent has gone inactive
	svc, repo := newTestService(t)
	ctx := context.Background()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "clients")
	perm := seedPermission(t, svc, "client_read", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.DeactivateRole(ctx, role.ID))
	assert.Error(t, repo.AssignPermission(ctx, role.ID, form.ID, perm.ID))
	assert.False(t, repo.Assigned(role.ID, form.ID))

	// swapping an assignment onto a retired bundle is refused too
	backup := seedRole(t, svc, "backup")
	require.NoError(t, repo.AssignPermission(ctx, backup.ID, form.ID, perm.ID))
	retired := seedPermission(t, svc, "retired", model.PermissionSet{CanRead: true})
	require.NoError(t, svc.DeactivatePermission(ctx, retired.ID))
	assert.Error(t, repo.UpdateAssignment(ctx, backup.ID, form.ID, retired.ID))
}

func TestAssignRoleToUser_RejectsInactiveRole(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	role := seedRole(t, svc, "agent")
	require.NoError(t, svc.DeactivateRole(ctx, role.ID))
	assert.Error(t, svc.AssignRoleToUser(ctx, uuid.New(), role.ID))
}

func TestResolvePermissions_SharedBundle(t *testing.T) {
	// one bundle reused across many (role, form) pairs
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	perm := seedPermission(t, svc, "read_only", model.PermissionSet{CanRead: true})

	var forms []*model.Form
	for i := 0; i < 3; i++ {
		form := seedForm(t, svc, fmt.Sprintf("form_%d", i))
		require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))
		forms = append(forms, form)
	}
	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	perms, err := svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)
	require.Len(t, perms, len(forms))
	for _, form := range forms {
		assert.True(t, perms[form.Code].CanRead)
	}
}

func TestCreateRole_Validation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	assert.Error(t, svc.CreateRole(ctx, &model.Role{Name: "no code"}))
	assert.Error(t, svc.CreateRole(ctx, &model.Role{Code: "no_name"}))
	assert.Error(t, svc.CreatePermission(ctx, &model.Permission{CanRead: true}))
}

func TestResolvePermissions_CacheInvalidatedOnMutation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	role := seedRole(t, svc, "agent")
	form := seedForm(t, svc, "appointments")
	perm := seedPermission(t, svc, "read_only", model.PermissionSet{CanRead: true})

	require.NoError(t, svc.AssignRoleToUser(ctx, userID, role.ID))

	// prime the cache with the empty resolution
	perms, err := svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, perms)

	require.NoError(t, svc.AssignPermission(ctx, role.ID, form.ID, perm.ID))

	start := time.Now()
	perms, err = svc.ResolvePermissions(ctx, userID)
	require.NoError(t, err)
	assert.True(t, perms["appointments"].CanRead, "grant visible immediately after assignment (elapsed %v)", time.Since(start))
}
