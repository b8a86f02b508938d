package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
)

type Service struct {
	repo repository.AuditRepository
}

func NewService(repo repository.AuditRepository) *Service {
	return &Service{repo: repo}
}

// Log records an audit entry. Failures are swallowed by callers; auditing
// never blocks the operation it describes.
func (s *Service) Log(ctx context.Context, userID uuid.UUID, action, entityType string, entityID uuid.UUID, changes interface{}) error {
	var payload json.RawMessage
	if changes != nil {
		var err error
		payload, err = json.Marshal(changes)
		if err != nil {
			return err
		}
	}

	return s.repo.Create(ctx, &model.AuditLog{
		ID:         uuid.New(),
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Changes:    payload,
		CreatedAt:  time.Now(),
	})
}

func (s *Service) List(ctx context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	return s.repo.List(ctx, entityType, entityID)
}

// UserIDFromContext returns the authenticated user recorded by the auth
// middleware, or uuid.Nil for unauthenticated paths.
func UserIDFromContext(ctx context.Context) uuid.UUID {
	if userID, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return userID
	}
	return uuid.Nil
}

type contextKey string

// UserIDKey is the context key under which middleware stores the caller ID.
const UserIDKey contextKey = "user_id"
