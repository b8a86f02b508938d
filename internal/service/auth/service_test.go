package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	pkgauth "github.com/serviexpress/scheduling-api/pkg/auth"
	"github.com/serviexpress/scheduling-api/pkg/security"
)

func newTestService(t *testing.T) (*Service, *memory.UserRepository, *model.User) {
	t.Helper()

	users := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(4)
	tokens := pkgauth.NewJWTService(pkgauth.Config{
		Secret:        "test-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Minute,
		RefreshExpiry: time.Hour,
	})

	hash, err := hasher.Hash("correct-horse")
	require.NoError(t, err)

	user := &model.User{
		Email:        "operator@example.com",
		Name:         "Operator",
		PasswordHash: hash,
		Status:       model.StatusActive,
	}
	require.NoError(t, users.Create(context.Background(), user))

	return NewService(users, hasher, tokens, nil), users, user
}

func TestLogin(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(60), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "operator@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "wrong",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	// Unknown emails fail the same way as wrong passwords.
	_, err := svc.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct-horse",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLoginLockout(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(ctx, &model.LoginRequest{
			Email:    "operator@example.com",
			Password: "wrong",
		})
		assert.ErrorContains(t, err, "invalid credentials")
	}

	// Even the right password is refused while locked.
	_, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "correct-horse",
	})
	assert.ErrorContains(t, err, "locked")
}

func TestLoginResetsAttemptCounter(t *testing.T) {
	svc, users, user := newTestService(t)
	ctx := context.Background()

	for i := 0; i < maxLoginAttempts-1; i++ {
		_, _ = svc.Login(ctx, &model.LoginRequest{Email: "operator@example.com", Password: "wrong"})
	}

	_, err := svc.Login(ctx, &model.LoginRequest{Email: "operator@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	stored, err := users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.LoginAttempts)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginInactiveUser(t *testing.T) {
	svc, users, user := newTestService(t)
	ctx := context.Background()

	require.NoError(t, users.Deactivate(ctx, user.ID))

	_, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "correct-horse",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestRefresh(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	// Access tokens are not valid refresh tokens.
	_, err = svc.Refresh(ctx, resp.AccessToken)
	assert.Error(t, err)
}

func TestRefreshDeactivatedUser(t *testing.T) {
	svc, users, user := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &model.LoginRequest{
		Email:    "operator@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	require.NoError(t, users.Deactivate(ctx, user.ID))

	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.Error(t, err)
}
