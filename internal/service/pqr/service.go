package pqr

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type Service struct {
	repo    repository.PQRRepository
	clients repository.ClientRepository
	auditor *audit.Service
}

func NewService(repo repository.PQRRepository, clients repository.ClientRepository, auditor *audit.Service) *Service {
	return &Service{repo: repo, clients: clients, auditor: auditor}
}

// Create files a new request on behalf of an active client. The tracking
// number is generated server-side and returned to the caller.
func (s *Service) Create(ctx context.Context, req *model.CreatePQRRequest) (*model.PQR, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid client id")
	}

	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !client.Status.IsActive() {
		return nil, apperrors.BadRequest("client is inactive")
	}

	pqr := &model.PQR{
		Base:        model.Base{ID: uuid.New()},
		Number:      generateNumber(),
		ClientID:    clientID,
		Type:        model.PQRType(req.Type),
		Subject:     strings.TrimSpace(req.Subject),
		Description: strings.TrimSpace(req.Description),
		Status:      model.PQRStatusOpen,
	}

	if err := s.repo.Create(ctx, pqr); err != nil {
		return nil, fmt.Errorf("failed to create PQR: %w", err)
	}

	s.audit(ctx, model.AuditActionCreate, pqr.ID, pqr)
	return pqr, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.PQR, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*model.PQR, error) {
	return s.repo.GetByNumber(ctx, strings.ToUpper(strings.TrimSpace(number)))
}

// StartReview moves an open request into review.
func (s *Service) StartReview(ctx context.Context, id uuid.UUID) (*model.PQR, error) {
	return s.transition(ctx, id, model.PQRStatusInReview, model.PQRStatusOpen)
}

// Resolve records the resolution text and stamps the resolution time.
// Only open or in-review requests can be resolved.
func (s *Service) Resolve(ctx context.Context, id uuid.UUID, resolution string) (*model.PQR, error) {
	pqr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if pqr.Status != model.PQRStatusOpen && pqr.Status != model.PQRStatusInReview {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot resolve a %s PQR", pqr.Status))
	}

	now := time.Now()
	pqr.Status = model.PQRStatusResolved
	pqr.Resolution = &resolution
	pqr.ResolvedAt = &now

	if err := s.repo.Update(ctx, pqr); err != nil {
		return nil, fmt.Errorf("failed to resolve PQR: %w", err)
	}

	s.audit(ctx, model.AuditActionUpdate, pqr.ID, map[string]string{"status": "resolved"})
	return pqr, nil
}

// Close ends a resolved request. Closed is terminal.
func (s *Service) Close(ctx context.Context, id uuid.UUID) (*model.PQR, error) {
	return s.transition(ctx, id, model.PQRStatusClosed, model.PQRStatusResolved)
}

func (s *Service) List(ctx context.Context, filter *model.PQRFilter) ([]*model.PQR, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.PQRStatus, from ...model.PQRStatus) (*model.PQR, error) {
	pqr, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if pqr.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot move a %s PQR to %s", pqr.Status, to))
	}

	pqr.Status = to
	if err := s.repo.Update(ctx, pqr); err != nil {
		return nil, fmt.Errorf("failed to update PQR: %w", err)
	}

	s.audit(ctx, model.AuditActionUpdate, pqr.ID, map[string]model.PQRStatus{"status": to})
	return pqr, nil
}

// generateNumber builds a tracking number like PQR-20260114-3F2A9C01.
func generateNumber() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("failed to read random bytes: %v", err))
	}
	return fmt.Sprintf("PQR-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
}

func (s *Service) audit(ctx context.Context, action string, id uuid.UUID, changes interface{}) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, "pqr", id, changes)
}
