package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *pqrRepository) Create(ctx context.Context, pqr *model.PQR) error {
	query := `
		INSERT INTO pqrs (id, number, client_id, type, subject, description,
			status, resolution, resolved_at, created_at, updated_at)
		VALUES (:id, :number, :client_id, :type, :subject, :description,
			:status, :resolution, :resolved_at, :created_at, :updated_at)
	`
	pqr.CreatedAt = time.Now()
	pqr.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, pqr); err != nil {
		return fmt.Errorf("failed to create PQR: %w", err)
	}
	return nil
}

func (r *pqrRepository) Get(ctx context.Context, id uuid.UUID) (*model.PQR, error) {
	query := `
		SELECT id, number, client_id, type, subject, description, status,
			resolution, resolved_at, created_at, updated_at
		FROM pqrs
		WHERE id = $1
	`
	var pqr model.PQR
	if err := r.db.GetContext(ctx, &pqr, query, id); err != nil {
		return nil, wrapGetErr(err, "PQR")
	}
	return &pqr, nil
}

func (r *pqrRepository) GetByNumber(ctx context.Context, number string) (*model.PQR, error) {
	query := `
		SELECT id, number, client_id, type, subject, description, status,
			resolution, resolved_at, created_at, updated_at
		FROM pqrs
		WHERE number = $1
	`
	var pqr model.PQR
	if err := r.db.GetContext(ctx, &pqr, query, number); err != nil {
		return nil, wrapGetErr(err, "PQR")
	}
	return &pqr, nil
}

func (r *pqrRepository) Update(ctx context.Context, pqr *model.PQR) error {
	query := `
		UPDATE pqrs
		SET subject = :subject, description = :description, status = :status,
			resolution = :resolution, resolved_at = :resolved_at, updated_at = :updated_at
		WHERE id = :id
	`
	pqr.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, pqr)
	if err != nil {
		return fmt.Errorf("failed to update PQR: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("PQR not found")
	}
	return nil
}

func (r *pqrRepository) List(ctx context.Context, filter *model.PQRFilter) ([]*model.PQR, error) {
	query := `
		SELECT id, number, client_id, type, subject, description, status,
			resolution, resolved_at, created_at, updated_at
		FROM pqrs
		WHERE 1=1
	`
	var args []interface{}

	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	var pqrs []*model.PQR
	if err := r.db.SelectContext(ctx, &pqrs, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list PQRs: %w", err)
	}
	return pqrs, nil
}
