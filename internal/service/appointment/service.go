package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/serviexpress/scheduling-api/internal/domain"
	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
	apperrors "github.com/serviexpress/scheduling-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// Notifier delivers client-facing messages about appointment lifecycle
// changes. Delivery is best-effort; scheduling never fails on it.
type Notifier interface {
	AppointmentScheduled(ctx context.Context, client *model.Client, apt *model.Appointment)
	AppointmentCancelled(ctx context.Context, client *model.Client, apt *model.Appointment)
}

type Service struct {
	repo     repository.AppointmentRepository
	clients  repository.ClientRepository
	branches repository.BranchRepository
	holidays repository.HolidayRepository
	outbox   repository.OutboxRepository
	notifier Notifier
	auditor  *audit.Service
}

func NewService(
	repo repository.AppointmentRepository,
	clients repository.ClientRepository,
	branches repository.BranchRepository,
	holidays repository.HolidayRepository,
	outbox repository.OutboxRepository,
	notifier Notifier,
	auditor *audit.Service,
) *Service {
	return &Service{
		repo:     repo,
		clients:  clients,
		branches: branches,
		holidays: holidays,
		outbox:   outbox,
		notifier: notifier,
		auditor:  auditor,
	}
}

// Create books a half-hour slot at a branch. The date must not be in the
// past or a holiday, the branch and client must be active, and the slot
// must be free. Each booked slot holds at most one live appointment.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid client id")
	}
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, apperrors.BadRequest("invalid branch id")
	}

	date, slot, err := s.parseDateSlot(req.Date, req.Slot)
	if err != nil {
		return nil, err
	}

	client, err := s.clients.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !client.Status.IsActive() {
		return nil, apperrors.BadRequest("client is inactive")
	}

	branch, err := s.branches.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !branch.Status.IsActive() {
		return nil, apperrors.BadRequest("branch is inactive")
	}

	if err := s.checkBookable(ctx, branchID, date, slot, nil); err != nil {
		return nil, err
	}

	apt := &model.Appointment{
		Base:     model.Base{ID: uuid.New()},
		Number:   domain.GenerateAppointmentNumber().Value(),
		ClientID: clientID,
		BranchID: branchID,
		Date:     date,
		Slot:     slot.Value(),
		Status:   model.AppointmentStatusScheduled,
		Notes:    req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.emit(ctx, "appointment.scheduled", apt)
	if s.notifier != nil {
		s.notifier.AppointmentScheduled(ctx, client, apt)
	}
	s.audit(ctx, model.AuditActionCreate, apt.ID, apt)
	return apt, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetByNumber(ctx context.Context, number string) (*model.Appointment, error) {
	parsed, err := domain.NewAppointmentNumber(number)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error())
	}
	return s.repo.GetByNumber(ctx, parsed.Value())
}

// Reschedule moves a scheduled or confirmed appointment to a new date or
// slot, re-running the full booking checks against the new position.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status != model.AppointmentStatusScheduled && apt.Status != model.AppointmentStatusConfirmed {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot reschedule a %s appointment", apt.Status))
	}

	rawDate := apt.Date.Format(dateLayout)
	if req.Date != nil {
		rawDate = *req.Date
	}
	rawSlot := apt.Slot
	if req.Slot != nil {
		rawSlot = *req.Slot
	}

	date, slot, err := s.parseDateSlot(rawDate, rawSlot)
	if err != nil {
		return nil, err
	}

	moved := !sameDay(date, apt.Date) || slot.Value() != apt.Slot
	if moved {
		if err := s.checkBookable(ctx, apt.BranchID, date, slot, &apt.ID); err != nil {
			return nil, err
		}
		apt.Date = date
		apt.Slot = slot.Value()
	}
	if req.Notes != nil {
		apt.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	if moved {
		s.emit(ctx, "appointment.rescheduled", apt)
	}
	s.audit(ctx, model.AuditActionUpdate, apt.ID, req)
	return apt, nil
}

func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusConfirmed, model.AppointmentStatusScheduled)
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.AppointmentStatusCompleted,
		model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed)
}

// Cancel releases the slot. Completed appointments cannot be cancelled and
// cancellation is idempotent only in the negative: a second cancel fails.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if apt.Status == model.AppointmentStatusCompleted || apt.Status == model.AppointmentStatusCancelled {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot cancel a %s appointment", apt.Status))
	}

	apt.Status = model.AppointmentStatusCancelled
	apt.CancelReason = &reason

	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to cancel appointment: %w", err)
	}

	s.emit(ctx, "appointment.cancelled", apt)
	if s.notifier != nil {
		if client, err := s.clients.Get(ctx, apt.ClientID); err == nil {
			s.notifier.AppointmentCancelled(ctx, client, apt)
		}
	}
	s.audit(ctx, model.AuditActionUpdate, apt.ID, map[string]string{"status": "cancelled", "reason": reason})
	return apt, nil
}

func (s *Service) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	return s.repo.List(ctx, filter)
}

// GetAvailability returns the free slots for a branch on a date: the full
// business-hours grid minus booked slots, or an empty grid on holidays.
func (s *Service) GetAvailability(ctx context.Context, branchID uuid.UUID, date time.Time) (*model.DayAvailability, error) {
	branch, err := s.branches.Get(ctx, branchID)
	if err != nil {
		return nil, err
	}

	avail := &model.DayAvailability{
		BranchID: branch.ID,
		Date:     date,
		Slots:    []string{},
	}

	if !branch.Status.IsActive() {
		return avail, nil
	}

	holiday, err := s.holidays.ExistsOnDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		avail.Holiday = true
		return avail, nil
	}

	booked, err := s.repo.ListBookedSlots(ctx, branchID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, slot := range booked {
		taken[slot] = true
	}

	for _, slot := range domain.AllTimeSlots() {
		if !taken[slot.Value()] {
			avail.Slots = append(avail.Slots, slot.Value())
		}
	}
	return avail, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to model.AppointmentStatus, from ...model.AppointmentStatus) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, status := range from {
		if apt.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.BadRequest(fmt.Sprintf("cannot move a %s appointment to %s", apt.Status, to))
	}

	apt.Status = to
	if err := s.repo.Update(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.audit(ctx, model.AuditActionUpdate, apt.ID, map[string]model.AppointmentStatus{"status": to})
	return apt, nil
}

func (s *Service) parseDateSlot(rawDate, rawSlot string) (time.Time, domain.TimeSlot, error) {
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return time.Time{}, domain.TimeSlot{}, apperrors.BadRequest("date must be in YYYY-MM-DD format")
	}

	slot, err := domain.NewTimeSlot(rawSlot)
	if err != nil {
		return time.Time{}, domain.TimeSlot{}, apperrors.BadRequest(err.Error())
	}

	// Parsed dates are UTC midnights; rebuild today from the local calendar
	// date in the same location, otherwise evening bookings shift a day.
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return time.Time{}, domain.TimeSlot{}, apperrors.BadRequest("cannot book a past date")
	}
	return date, slot, nil
}

func (s *Service) checkBookable(ctx context.Context, branchID uuid.UUID, date time.Time, slot domain.TimeSlot, excludeID *uuid.UUID) error {
	holiday, err := s.holidays.ExistsOnDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to check holiday: %w", err)
	}
	if holiday {
		return apperrors.BadRequest("date is a holiday")
	}

	taken, err := s.repo.SlotTaken(ctx, branchID, date, slot.Value(), excludeID)
	if err != nil {
		return fmt.Errorf("failed to check slot: %w", err)
	}
	if taken {
		return apperrors.Conflict("slot is already booked")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, apt *model.Appointment) {
	if s.outbox == nil {
		return
	}
	payload, err := json.Marshal(apt)
	if err != nil {
		return
	}
	_ = s.outbox.Create(ctx, &model.OutboxEvent{
		EventType: eventType,
		Payload:   payload,
		Status:    model.OutboxStatusPending,
	})
}

func (s *Service) audit(ctx context.Context, action string, id uuid.UUID, changes interface{}) {
	if s.auditor == nil {
		return
	}
	_ = s.auditor.Log(ctx, audit.UserIDFromContext(ctx), action, "appointment", id, changes)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
