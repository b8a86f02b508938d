package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *branchRepository) Create(ctx context.Context, branch *model.Branch) error {
	query := `
		INSERT INTO branches (id, code, name, street, city, state, postal_code,
			phone, status, created_at, updated_at)
		VALUES (:id, :code, :name, :street, :city, :state, :postal_code,
			:phone, :status, :created_at, :updated_at)
	`
	branch.ID = uuid.New()
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, branch); err != nil {
		return fmt.Errorf("failed to create branch: %w", err)
	}
	return nil
}

func (r *branchRepository) Get(ctx context.Context, id uuid.UUID) (*model.Branch, error) {
	query := `
		SELECT id, code, name, street, city, state, postal_code, phone, status,
			created_at, updated_at
		FROM branches
		WHERE id = $1
	`
	var branch model.Branch
	if err := r.db.GetContext(ctx, &branch, query, id); err != nil {
		return nil, wrapGetErr(err, "branch")
	}
	return &branch, nil
}

func (r *branchRepository) GetByCode(ctx context.Context, code string) (*model.Branch, error) {
	query := `
		SELECT id, code, name, street, city, state, postal_code, phone, status,
			created_at, updated_at
		FROM branches
		WHERE code = $1 AND status = $2
	`
	var branch model.Branch
	if err := r.db.GetContext(ctx, &branch, query, code, model.StatusActive); err != nil {
		return nil, wrapGetErr(err, "branch")
	}
	return &branch, nil
}

func (r *branchRepository) Update(ctx context.Context, branch *model.Branch) error {
	query := `
		UPDATE branches
		SET name = :name, street = :street, city = :city, state = :state,
			postal_code = :postal_code, phone = :phone, status = :status,
			updated_at = :updated_at
		WHERE id = :id
	`
	branch.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, branch)
	if err != nil {
		return fmt.Errorf("failed to update branch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("branch not found")
	}
	return nil
}

func (r *branchRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE branches
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusInactive, time.Now(), id, model.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate branch: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("branch not found")
	}
	return nil
}

func (r *branchRepository) List(ctx context.Context, includeInactive bool) ([]*model.Branch, error) {
	query := `
		SELECT id, code, name, street, city, state, postal_code, phone, status,
			created_at, updated_at
		FROM branches
	`
	var args []interface{}
	if !includeInactive {
		query += " WHERE status = $1"
		args = append(args, model.StatusActive)
	}
	query += " ORDER BY code ASC"

	var branches []*model.Branch
	if err := r.db.SelectContext(ctx, &branches, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return branches, nil
}
