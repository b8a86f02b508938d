package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	"github.com/serviexpress/scheduling-api/pkg/security"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(
		memory.NewUserRepository(),
		security.NewBcryptHasher(4),
		audit.NewService(memory.NewAuditRepository()),
	)
}

func createUser(t *testing.T, svc *Service, email string) *model.User {
	t.Helper()
	user, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Email:    email,
		Name:     "Ana Torres",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestCreate_NormalizesEmail(t *testing.T) {
	svc := newTestService(t)

	user := createUser(t, svc, "  Ana.Torres@Example.COM ")
	assert.Equal(t, "ana.torres@example.com", user.Email)
	assert.Equal(t, model.StatusActive, user.Status)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	svc := newTestService(t)

	createUser(t, svc, "ana@example.com")
	_, err := svc.Create(context.Background(), &model.CreateUserRequest{
		Email:    "ANA@example.com",
		Name:     "Other",
		Password: "another-pass",
	})
	assert.ErrorContains(t, err, "email already in use")
}

func TestUpdate_EmailUniqueness(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	createUser(t, svc, "taken@example.com")
	user := createUser(t, svc, "ana@example.com")

	taken := "Taken@example.com"
	_, err := svc.Update(ctx, user.ID, &model.UpdateUserRequest{Email: &taken})
	assert.ErrorContains(t, err, "email already in use")

	free := "ana.new@example.com"
	updated, err := svc.Update(ctx, user.ID, &model.UpdateUserRequest{Email: &free})
	require.NoError(t, err)
	assert.Equal(t, "ana.new@example.com", updated.Email)

	// re-submitting the current address is a no-op, not a conflict
	same := "ana.new@example.com"
	_, err = svc.Update(ctx, user.ID, &model.UpdateUserRequest{Email: &same})
	assert.NoError(t, err)
}

func TestChangePassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	user := createUser(t, svc, "ana@example.com")

	err := svc.ChangePassword(ctx, user.ID, "wrong-pass", "new-pass-123")
	assert.ErrorContains(t, err, "current password is incorrect")

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret-pass", "new-pass-123"))

	// old credential no longer accepted
	err = svc.ChangePassword(ctx, user.ID, "s3cret-pass", "whatever-pass")
	assert.Error(t, err)
	assert.NoError(t, svc.ChangePassword(ctx, user.ID, "new-pass-123", "s3cret-pass"))
}

func TestDeactivateAndList(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	active := createUser(t, svc, "active@example.com")
	retired := createUser(t, svc, "retired@example.com")
	require.NoError(t, svc.Deactivate(ctx, retired.ID))

	users, err := svc.List(ctx, &model.UserFilter{})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, active.ID, users[0].ID)

	all, err := svc.List(ctx, &model.UserFilter{BaseFilter: model.BaseFilter{IncludeInactive: true}})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
