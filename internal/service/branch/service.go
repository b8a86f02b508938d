package branch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/domain"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type Service struct {
	repo    repository.BranchRepository
	auditor *audit.Service
}

func NewService(repo repository.BranchRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

func (s *Service) Create(ctx context.Context, req *model.CreateBranchRequest) (*model.Branch, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, apperrors.BadRequest("branch code is required")
	}

	addr, err := domain.NewAddress(req.Street, req.City, req.State, req.PostalCode)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	var phone string
	if req.Phone != "" {
		p, err := domain.NewPhoneNumber(req.Phone, false)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		phone = p.Value()
	}

	if existing, err := s.repo.GetByCode(ctx, code); err == nil && existing != nil {
		return nil, apperrors.Conflict("branch code already in use")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check branch code: %w", err)
	}

	branch := &model.Branch{
		Code:       code,
		Name:       req.Name,
		Street:     addr.Street(),
		City:       addr.City(),
		State:      addr.State(),
		PostalCode: addr.PostalCode(),
		Phone:      phone,
		Status:     model.StatusActive,
	}

	if err := s.repo.Create(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, branch.ID, branch)
	return branch, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateBranchRequest) (*model.Branch, error) {
	branch, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		branch.Name = *req.Name
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			branch.Phone = ""
		} else {
			p, err := domain.NewPhoneNumber(*req.Phone, false)
			if err != nil {
				return nil, apperrors.BadRequest(err.Error())
			}
			branch.Phone = p.Value()
		}
	}
	if req.Street != nil || req.City != nil || req.State != nil || req.PostalCode != nil {
		street, city, state, postal := branch.Street, branch.City, branch.State, branch.PostalCode
		if req.Street != nil {
			street = *req.Street
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			postal = *req.PostalCode
		}
		addr, err := domain.NewAddress(street, city, state, postal)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		branch.Street = addr.Street()
		branch.City = addr.City()
		branch.State = addr.State()
		branch.PostalCode = addr.PostalCode()
	}

	if err := s.repo.Update(ctx, branch); err != nil {
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}

	s.audit(ctx, model.AuditActionUpdate, branch.ID, req)
	return branch, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate branch: %w", err)
	}

	s.audit(ctx, model.AuditActionDelete, id, nil)
	return nil
}

func (s *Service) List(ctx context.Context, includeInactive bool) ([]*model.Branch, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *Service) audit(ctx context.Context, action string, id uuid.UUID, changes interface{}) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, "branch", id, changes)
}
