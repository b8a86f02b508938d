package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *holidayRepository) Create(ctx context.Context, holiday *model.Holiday) error {
	query := `
		INSERT INTO holidays (id, date, name, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	holiday.ID = uuid.New()
	holiday.CreatedAt = time.Now()
	holiday.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		holiday.ID,
		holiday.Date,
		holiday.Name,
		holiday.Status,
		holiday.CreatedAt,
		holiday.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create holiday: %w", err)
	}
	return nil
}

func (r *holidayRepository) Get(ctx context.Context, id uuid.UUID) (*model.Holiday, error) {
	query := `
		SELECT id, date, name, status, created_at, updated_at
		FROM holidays
		WHERE id = $1
	`
	var holiday model.Holiday
	if err := r.db.GetContext(ctx, &holiday, query, id); err != nil {
		return nil, wrapGetErr(err, "holiday")
	}
	return &holiday, nil
}

func (r *holidayRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE holidays
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusInactive, time.Now(), id, model.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate holiday: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("holiday not found")
	}
	return nil
}

func (r *holidayRepository) ListByRange(ctx context.Context, from, to time.Time) ([]*model.Holiday, error) {
	query := `
		SELECT id, date, name, status, created_at, updated_at
		FROM holidays
		WHERE date >= $1 AND date <= $2 AND status = $3
		ORDER BY date ASC
	`
	var holidays []*model.Holiday
	if err := r.db.SelectContext(ctx, &holidays, query, from, to, model.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	return holidays, nil
}

func (r *holidayRepository) ExistsOnDate(ctx context.Context, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM holidays
			WHERE date = $1 AND status = $2
		)
	`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, date, model.StatusActive); err != nil {
		return false, fmt.Errorf("failed to check holiday: %w", err)
	}
	return exists, nil
}
