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

type AuditRepository struct {
	mu   sync.Mutex
	logs []*model.AuditLog
}

func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, log *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, log)
	return nil
}

func (r *AuditRepository) List(_ context.Context, entityType string, entityID uuid.UUID) ([]*model.AuditLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.AuditLog
	for _, log := range r.logs {
		if log.EntityType == entityType && log.EntityID == entityID {
			out = append(out, log)
		}
	}
	return out, nil
}

type AppointmentRepository struct {
	mu           sync.RWMutex
	appointments map[uuid.UUID]*model.Appointment
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *AppointmentRepository) Create(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()
	copied := *apt
	r.appointments[apt.ID] = &copied
	return nil
}

func (r *AppointmentRepository) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	apt, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	copied := *apt
	return &copied, nil
}

func (r *AppointmentRepository) GetByNumber(_ context.Context, number string) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, apt := range r.appointments {
		if apt.Number == number {
			copied := *apt
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("appointment", nil)
}

func (r *AppointmentRepository) Update(_ context.Context, apt *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[apt.ID]; !ok {
		return fmt.Errorf("appointment not found")
	}
	apt.UpdatedAt = time.Now()
	copied := *apt
	r.appointments[apt.ID] = &copied
	return nil
}

func (r *AppointmentRepository) List(_ context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Appointment
	for _, apt := range r.appointments {
		if filter.ClientID != uuid.Nil && apt.ClientID != filter.ClientID {
			continue
		}
		if filter.BranchID != uuid.Nil && apt.BranchID != filter.BranchID {
			continue
		}
		if filter.Status != "" && apt.Status != filter.Status {
			continue
		}
		if !filter.StartDate.IsZero() && apt.Date.Before(filter.StartDate) {
			continue
		}
		if !filter.EndDate.IsZero() && apt.Date.After(filter.EndDate) {
			continue
		}
		copied := *apt
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Slot < out[j].Slot
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out, nil
}

func (r *AppointmentRepository) ListBookedSlots(_ context.Context, branchID uuid.UUID, date time.Time) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var slots []string
	for _, apt := range r.appointments {
		if apt.BranchID == branchID && sameDay(apt.Date, date) && booked(apt.Status) {
			slots = append(slots, apt.Slot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (r *AppointmentRepository) SlotTaken(_ context.Context, branchID uuid.UUID, date time.Time, slot string, excludeID *uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, apt := range r.appointments {
		if excludeID != nil && apt.ID == *excludeID {
			continue
		}
		if apt.BranchID == branchID && sameDay(apt.Date, date) && apt.Slot == slot && booked(apt.Status) {
			return true, nil
		}
	}
	return false, nil
}

func booked(status model.AppointmentStatus) bool {
	return status == model.AppointmentStatusScheduled || status == model.AppointmentStatusConfirmed
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

type BranchRepository struct {
	mu       sync.RWMutex
	branches map[uuid.UUID]*model.Branch
}

func NewBranchRepository() *BranchRepository {
	return &BranchRepository{branches: make(map[uuid.UUID]*model.Branch)}
}

func (r *BranchRepository) Create(_ context.Context, branch *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	branch.ID = uuid.New()
	branch.CreatedAt = time.Now()
	branch.UpdatedAt = time.Now()
	copied := *branch
	r.branches[branch.ID] = &copied
	return nil
}

func (r *BranchRepository) Get(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	branch, ok := r.branches[id]
	if !ok {
		return nil, apperrors.NotFound("branch", nil)
	}
	copied := *branch
	return &copied, nil
}

func (r *BranchRepository) GetByCode(_ context.Context, code string) (*model.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, branch := range r.branches {
		if branch.Code == code && branch.Status.IsActive() {
			copied := *branch
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("branch", nil)
}

func (r *BranchRepository) Update(_ context.Context, branch *model.Branch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.branches[branch.ID]; !ok {
		return fmt.Errorf("branch not found")
	}
	branch.UpdatedAt = time.Now()
	copied := *branch
	r.branches[branch.ID] = &copied
	return nil
}

func (r *BranchRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	branch, ok := r.branches[id]
	if !ok || !branch.Status.IsActive() {
		return fmt.Errorf("branch not found")
	}
	branch.Status = model.StatusInactive
	branch.UpdatedAt = time.Now()
	return nil
}

func (r *BranchRepository) List(_ context.Context, includeInactive bool) ([]*model.Branch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Branch
	for _, branch := range r.branches {
		if includeInactive || branch.Status.IsActive() {
			copied := *branch
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

type HolidayRepository struct {
	mu       sync.RWMutex
	holidays map[uuid.UUID]*model.Holiday
}

func NewHolidayRepository() *HolidayRepository {
	return &HolidayRepository{holidays: make(map[uuid.UUID]*model.Holiday)}
}

func (r *HolidayRepository) Create(_ context.Context, holiday *model.Holiday) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	holiday.ID = uuid.New()
	holiday.CreatedAt = time.Now()
	holiday.UpdatedAt = time.Now()
	copied := *holiday
	r.holidays[holiday.ID] = &copied
	return nil
}

func (r *HolidayRepository) Get(_ context.Context, id uuid.UUID) (*model.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	holiday, ok := r.holidays[id]
	if !ok {
		return nil, apperrors.NotFound("holiday", nil)
	}
	copied := *holiday
	return &copied, nil
}

func (r *HolidayRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	holiday, ok := r.holidays[id]
	if !ok || !holiday.Status.IsActive() {
		return fmt.Errorf("holiday not found")
	}
	holiday.Status = model.StatusInactive
	holiday.UpdatedAt = time.Now()
	return nil
}

func (r *HolidayRepository) ListByRange(_ context.Context, from, to time.Time) ([]*model.Holiday, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Holiday
	for _, holiday := range r.holidays {
		if !holiday.Status.IsActive() {
			continue
		}
		if holiday.Date.Before(from) || holiday.Date.After(to) {
			continue
		}
		copied := *holiday
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *HolidayRepository) ExistsOnDate(_ context.Context, date time.Time) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, holiday := range r.holidays {
		if holiday.Status.IsActive() && sameDay(holiday.Date, date) {
			return true, nil
		}
	}
	return false, nil
}

type ClientRepository struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*model.Client
}

func NewClientRepository() *ClientRepository {
	return &ClientRepository{clients: make(map[uuid.UUID]*model.Client)}
}

func (r *ClientRepository) Create(_ context.Context, client *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client.ID = uuid.New()
	client.CreatedAt = time.Now()
	client.UpdatedAt = time.Now()
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *ClientRepository) Get(_ context.Context, id uuid.UUID) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[id]
	if !ok {
		return nil, apperrors.NotFound("client", nil)
	}
	copied := *client
	return &copied, nil
}

func (r *ClientRepository) GetByDocument(_ context.Context, docType, docValue string) (*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, client := range r.clients {
		if client.DocumentType == docType && client.DocumentValue == docValue && client.Status.IsActive() {
			copied := *client
			return &copied, nil
		}
	}
	return nil, apperrors.NotFound("client", nil)
}

func (r *ClientRepository) Update(_ context.Context, client *model.Client) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clients[client.ID]; !ok {
		return fmt.Errorf("client not found")
	}
	client.UpdatedAt = time.Now()
	copied := *client
	r.clients[client.ID] = &copied
	return nil
}

func (r *ClientRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	client, ok := r.clients[id]
	if !ok || !client.Status.IsActive() {
		return fmt.Errorf("client not found")
	}
	client.Status = model.StatusInactive
	client.UpdatedAt = time.Now()
	return nil
}

func (r *ClientRepository) List(_ context.Context, filter *model.ClientFilter) ([]*model.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Client
	for _, client := range r.clients {
		if !filter.IncludeInactive && !client.Status.IsActive() {
			continue
		}
		if filter.DocumentType != "" && client.DocumentType != filter.DocumentType {
			continue
		}
		copied := *client
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]*model.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{notifications: make(map[uuid.UUID]*model.Notification)}
}

func (r *NotificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.CreatedAt = time.Now()
	n.UpdatedAt = time.Now()
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *NotificationRepository) Get(_ context.Context, id uuid.UUID) (*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notifications[id]
	if !ok {
		return nil, apperrors.NotFound("notification", nil)
	}
	copied := *n
	return &copied, nil
}

func (r *NotificationRepository) Update(_ context.Context, n *model.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.notifications[n.ID]; !ok {
		return fmt.Errorf("notification not found")
	}
	n.UpdatedAt = time.Now()
	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *NotificationRepository) ListByClient(_ context.Context, clientID uuid.UUID) ([]*model.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*model.Notification
	for _, n := range r.notifications {
		if n.ClientID == clientID {
			copied := *n
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
