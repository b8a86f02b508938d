package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	"github.com/serviexpress/scheduling-api/pkg/auth"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
	"github.com/serviexpress/scheduling-api/pkg/security"
)

const (
	maxLoginAttempts = 5
	lockoutWindow    = 15 * time.Minute
)

type Service struct {
	users   repository.UserRepository
	hasher  security.PasswordHasher
	tokens  auth.JWTService
	auditor *audit.Service
}

func NewService(users repository.UserRepository, hasher security.PasswordHasher, tokens auth.JWTService, auditor *audit.Service) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens, auditor: auditor}
}

// Login authenticates by email and password. Five consecutive failures
// lock the account for fifteen minutes; a successful login resets the
// counter. Inactive users cannot log in regardless of credentials.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.Unauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.Status.IsActive() {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	if s.lockedOut(user) {
		return nil, apperrors.Unauthorized("account temporarily locked")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		s.recordFailure(ctx, user)
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	now := time.Now()
	user.LoginAttempts = 0
	user.LastLoginAttempt = nil
	user.LastLoginAt = &now
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	if s.auditor != nil {
		_ = s.auditor.Log(ctx, user.ID, model.AuditActionLogin, "user", user.ID, nil)
	}
	return s.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist and be active.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	user, err := s.users.Get(ctx, claims.UserID)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}
	if !user.Status.IsActive() {
		return nil, apperrors.Unauthorized("invalid refresh token")
	}

	return s.issueTokens(user)
}

// ValidateToken checks an access token and returns its claims.
func (s *Service) ValidateToken(tokenString string) (*auth.Claims, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}

func (s *Service) lockedOut(user *model.User) bool {
	if user.LoginAttempts < maxLoginAttempts || user.LastLoginAttempt == nil {
		return false
	}
	return time.Since(*user.LastLoginAttempt) < lockoutWindow
}

func (s *Service) recordFailure(ctx context.Context, user *model.User) {
	now := time.Now()
	// Failures outside the window restart the count.
	if user.LastLoginAttempt != nil && now.Sub(*user.LastLoginAttempt) >= lockoutWindow {
		user.LoginAttempts = 0
	}
	user.LoginAttempts++
	user.LastLoginAttempt = &now
	_ = s.users.Update(ctx, user)
}

func (s *Service) issueTokens(user *model.User) (*model.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.tokens.AccessTokenTTL().Seconds()),
	}, nil
}
