package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/model"
)

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (id, number, client_id, branch_id, date, slot,
			status, notes, cancel_reason, created_at, updated_at)
		VALUES (:id, :number, :client_id, :branch_id, :date, :slot,
			:status, :notes, :cancel_reason, :created_at, :updated_at)
	`
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT id, number, client_id, branch_id, date, slot, status, notes,
			cancel_reason, created_at, updated_at
		FROM appointments
		WHERE id = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, id); err != nil {
		return nil, wrapGetErr(err, "appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) GetByNumber(ctx context.Context, number string) (*model.Appointment, error) {
	query := `
		SELECT id, number, client_id, branch_id, date, slot, status, notes,
			cancel_reason, created_at, updated_at
		FROM appointments
		WHERE number = $1
	`
	var apt model.Appointment
	if err := r.db.GetContext(ctx, &apt, query, number); err != nil {
		return nil, wrapGetErr(err, "appointment")
	}
	return &apt, nil
}

func (r *appointmentRepository) Update(ctx context.Context, apt *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = :date, slot = :slot, status = :status, notes = :notes,
			cancel_reason = :cancel_reason, updated_at = :updated_at
		WHERE id = :id
	`
	apt.UpdatedAt = time.Now()

	result, err := r.db.NamedExecContext(ctx, query, apt)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("appointment not found")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	query := `
		SELECT id, number, client_id, branch_id, date, slot, status, notes,
			cancel_reason, created_at, updated_at
		FROM appointments
		WHERE 1=1
	`
	var args []interface{}

	if filter.ClientID != uuid.Nil {
		args = append(args, filter.ClientID)
		query += fmt.Sprintf(" AND client_id = $%d", len(args))
	}
	if filter.BranchID != uuid.Nil {
		args = append(args, filter.BranchID)
		query += fmt.Sprintf(" AND branch_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if !filter.StartDate.IsZero() {
		args = append(args, filter.StartDate)
		query += fmt.Sprintf(" AND date >= $%d", len(args))
	}
	if !filter.EndDate.IsZero() {
		args = append(args, filter.EndDate)
		query += fmt.Sprintf(" AND date <= $%d", len(args))
	}
	query += " ORDER BY date ASC, slot ASC"

	var appointments []*model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListBookedSlots(ctx context.Context, branchID uuid.UUID, date time.Time) ([]string, error) {
	query := `
		SELECT slot
		FROM appointments
		WHERE branch_id = $1 AND date = $2 AND status IN ($3, $4)
		ORDER BY slot ASC
	`
	var slots []string
	err := r.db.SelectContext(ctx, &slots, query, branchID, date,
		model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	return slots, nil
}

func (r *appointmentRepository) SlotTaken(ctx context.Context, branchID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE branch_id = $1 AND date = $2 AND slot = $3
			AND status IN ($4, $5)
	`
	args := []interface{}{branchID, date, slot,
		model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed}

	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}
	query += ")"

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return taken, nil
}
