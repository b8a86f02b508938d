package setting

import (
	"context"
	"fmt"
	"strings"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type Service struct {
	repo    repository.SettingRepository
	auditor *audit.Service
}

func NewService(repo repository.SettingRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// Set creates or replaces the value under key.
func (s *Service) Set(ctx context.Context, key string, req *model.UpsertSettingRequest) (*model.SystemSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, apperrors.BadRequest("setting key is required")
	}

	setting := &model.SystemSetting{
		Key:         key,
		Value:       req.Value,
		Description: req.Description,
	}

	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to upsert setting: %w", err)
	}

	if s.auditor != nil {
		_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), model.AuditActionUpdate, "setting", setting.ID, setting)
	}
	return setting, nil
}

func (s *Service) Get(ctx context.Context, key string) (*model.SystemSetting, error) {
	return s.repo.GetByKey(ctx, key)
}

func (s *Service) List(ctx context.Context) ([]*model.SystemSetting, error) {
	return s.repo.List(ctx)
}
