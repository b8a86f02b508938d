package holiday

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

const dateLayout = "2006-01-02"

type Service struct {
	repo    repository.HolidayRepository
	auditor *audit.Service
}

func NewService(repo repository.HolidayRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateHolidayRequest) (*model.Holiday, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("date must be in YYYY-MM-DD format")
	}

	holiday := &model.Holiday{
		Date:   date,
		Name:   req.Name,
		Status: model.StatusActive,
	}

	if err := s.repo.Create(ctx, holiday); err != nil {
		return nil, fmt.Errorf("failed to create holiday: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, holiday.ID, holiday)
	return holiday, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Holiday, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate holiday: %w", err)
	}

	s.audit(ctx, model.AuditActionDelete, id, nil)
	return nil
}

func (s *Service) ListByRange(ctx context.Context, from, to time.Time) ([]*model.Holiday, error) {
	if to.Before(from) {
		return nil, apperrors.BadRequest("range end precedes range start")
	}
	return s.repo.ListByRange(ctx, from, to)
}

// IsHoliday reports whether the calendar date is blocked for booking.
func (s *Service) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return s.repo.ExistsOnDate(ctx, date)
}

func (s *Service) audit(ctx context.Context, action string, id uuid.UUID, changes interface{}) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, "holiday", id, changes)
}
