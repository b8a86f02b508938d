package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/domain"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type Service struct {
	repo    repository.ClientRepository
	auditor *audit.Service
}

func NewService(repo repository.ClientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, auditor: auditor}
}

// Create validates the raw request through the domain value objects and
// persists the normalized values. The same document may not be registered
// twice.
func (s *Service) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	doc, err := domain.NewDocumentNumber(req.DocumentValue, domain.DocumentType(req.DocumentType))
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	mobile, err := domain.NewPhoneNumber(req.MobilePhone, true)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	var landline string
	if req.Phone != "" {
		phone, err := domain.NewPhoneNumber(req.Phone, false)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		landline = phone.Value()
	}

	addr, err := domain.NewAddress(req.Street, req.City, req.State, req.PostalCode)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}

	if existing, err := s.repo.GetByDocument(ctx, string(doc.Type()), doc.Value()); err == nil && existing != nil {
		return nil, apperrors.Conflict("client with this document already exists")
	} else if err != nil && !apperrors.IsNotFound(err) {
		return nil, fmt.Errorf("failed to check existing client: %w", err)
	}

	client := &model.Client{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DocumentType:  string(doc.Type()),
		DocumentValue: doc.Value(),
		Email:         req.Email,
		Phone:         landline,
		MobilePhone:   mobile.Value(),
		Street:        addr.Street(),
		City:          addr.City(),
		State:         addr.State(),
		PostalCode:    addr.PostalCode(),
		Status:        model.StatusActive,
	}

	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, client.ID, client)
	return client, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByDocument(ctx context.Context, docType, docValue string) (*model.Client, error) {
	doc, err := domain.NewDocumentNumber(docValue, domain.DocumentType(docType))
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	return s.repo.GetByDocument(ctx, string(doc.Type()), doc.Value())
}

// Update applies the non-nil fields of the request. Document type and value
// are immutable once registered.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		client.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		client.LastName = *req.LastName
	}
	if req.Email != nil {
		client.Email = *req.Email
	}
	if req.MobilePhone != nil {
		mobile, err := domain.NewPhoneNumber(*req.MobilePhone, true)
		if err != nil {
			return nil, apperrors.BadRequest(err.Error())
		}
		client.MobilePhone = mobile.Value()
	}
	if req.Phone != nil {
		if *req.Phone == "" {
			client.Phone = ""
		} else {
			phone, err := domain.NewPhoneNumber(*req.Phone, false)
			if err != nil {
				return nil, apperrors.BadRequest(err.Error())
			}
			client.Phone = phone.Value()
		}
	}
	if req.Street != nil || req.City != nil || req.State != nil || req.PostalCode != nil {
		street, city, state, postal := client.Street, client.City, client.State, client.PostalCode
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
		client.Street = addr.Street()
		client.City = addr.City()
		client.State = addr.State()
		client.PostalCode = addr.PostalCode()
	}

	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}

	s.audit(ctx, model.AuditActionUpdate, client.ID, req)
	return client, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}

	s.audit(ctx, model.AuditActionDelete, id, nil)
	return nil
}

func (s *Service) List(ctx context.Context, filter *model.ClientFilter) ([]*model.Client, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) audit(ctx context.Context, action string, id uuid.UUID, changes interface{}) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, "client", id, changes)
}
