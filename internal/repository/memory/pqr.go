package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

type PQRRepository struct {
	mu   sync.RWMutex
	pqrs map[uuid.UUID]*model.PQR
}

func NewPQRRepository() *PQRRepository {
	return &PQRRepository{pqrs: make(map[uuid.UUID]*model.PQR)}
}

func (r *PQRRepository) Create(_ context.Context, pqr *model.PQR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	pqr.CreatedAt = time.Now()
	pqr.UpdatedAt = time.Now()
	copied := *pqr
	r.pqrs[pqr.ID] = &copied
	return nil
}

func (r *PQRRepository) Get(_ context.Context, id uuid.UUID) (*model.PQR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pqr, ok := r.pqrs[id]
	if !ok {
		return nil, apperrors.NotFound("PQR", nil)
	}
	copied := *pqr
	return &copied, nil
}

func (r *PQRRepository) GetByNumber(_ context.Context, number string) (*model.PQR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, pqr := range r.pqrs {
		if pqr.Number == number {
			copied := *pqr
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("PQR", nil)
}

func (r *PQRRepository) Update(_ context.Context, pqr *model.PQR) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.pqrs[pqr.ID]; !ok {
		return fmt.Errorf("PQR not found")
	}
	pqr.UpdatedAt = time.Now()
	copied := *pqr
	r.pqrs[pqr.ID] = &copied
	return nil
}

func (r *PQRRepository) List(_ context.Context, filter *model.PQRFilter) ([]*model.PQR, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.PQR
	for _, pqr := range r.pqrs {
		if filter.ClientID != uuid.Nil && pqr.ClientID != filter.ClientID {
			continue
		}
		if filter.Type != "" && pqr.Type != filter.Type {
			continue
		}
		if filter.Status != "" && pqr.Status != filter.Status {
			continue
		}
		copied := *pqr
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
