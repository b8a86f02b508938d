package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (id, first_name, last_name, document_type, document_value,
			email, phone, mobile_phone, street, city, state, postal_code, status,
			created_at, updated_at)
		VALUES (:id, :first_name, :last_name, :document_type, :document_value,
			:email, :phone, :mobile_phone, :street, :city, :state, :postal_code, :status,
			:created_at, :updated_at)
	`
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, first_name, last_name, document_type, document_value, email,
			phone, mobile_phone, street, city, state, postal_code, status,
			created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, id); err != nil {
		return nil, wrapGetErr(err, "client")
	}
	return &client, nil
}

func (r *clientRepository) GetByDocument(ctx context.Context, docType, docValue string) (*model.Client, error) {
	query := `
		SELECT id, first_name, last_name, document_type, document_value, email,
			phone, mobile_phone, street, city, state, postal_code, status,
			created_at, updated_at
		FROM clients
		WHERE document_type = $1 AND document_value = $2 AND status = $3
	`
	var client model.Client
	if err := r.db.GetContext(ctx, &client, query, docType, docValue, model.StatusActive); err != nil {
		return nil, wrapGetErr(err, "client")
	}
	return &client, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET first_name = :first_name, last_name = :last_name, email = :email,
			phone = :phone, mobile_phone = :mobile_phone, street = :street,
			city = :city, state = :state, postal_code = :postal_code,
			status = :status, updated_at = :updated_at
		WHERE id = :id
	`
	client.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, client)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

func (r *clientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clients
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, model.StatusInactive, time.Now(), id, model.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("client not found")
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filter *model.ClientFilter) ([]*model.Client, error) {
	query := `
		SELECT id, first_name, last_name, document_type, document_value, email,
			phone, mobile_phone, street, city, state, postal_code, status,
			created_at, updated_at
		FROM clients
		WHERE 1=1
	`
	var args []interface{}

	if !filter.IncludeInactive {
		args = append(args, model.StatusActive)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if filter.DocumentType != "" {
		args = append(args, filter.DocumentType)
		query += fmt.Sprintf(" AND document_type = $%d", len(args))
	}
	if filter.SearchTerm != "" {
		args = append(args, "%"+filter.SearchTerm+"%")
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR document_value ILIKE $%d)", len(args), len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	var clients []*model.Client
	if err := r.db.SelectContext(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
