package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
)

type fixture struct {
	svc    *Service
	outbox *memory.OutboxRepository
	client *model.Client
	branch *model.Branch

	holidays *memory.HolidayRepository
	clients  *memory.ClientRepository
	branches *memory.BranchRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	clients := memory.NewClientRepository()
	branches := memory.NewBranchRepository()
	holidays := memory.NewHolidayRepository()
	outbox := memory.NewOutboxRepository()

	client := &model.Client{
		FirstName:     "Maria",
		LastName:      "Gomez",
		DocumentType:  "CC",
		DocumentValue: "1012345678",
		Email:         "maria@example.com",
		MobilePhone:   "3001234567",
		Street:        "Calle 100 # 15-20",
		City:          "Bogota",
		State:         "Cundinamarca",
		Status:        model.StatusActive,
	}
	require.NoError(t, clients.Create(ctx, client))

	branch := &model.Branch{
		Code:   "BOG-NORTE",
		Name:   "Bogota Norte",
		Street: "Carrera 7 # 80-10",
		City:   "Bogota",
		State:  "Cundinamarca",
		Status: model.StatusActive,
	}
	require.NoError(t, branches.Create(ctx, branch))

	svc := NewService(memory.NewAppointmentRepository(), clients, branches, holidays, outbox, nil, nil)
	return &fixture{
		svc:      svc,
		outbox:   outbox,
		client:   client,
		branch:   branch,
		holidays: holidays,
		clients:  clients,
		branches: branches,
	}
}

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func (f *fixture) createRequest(slot string) *model.CreateAppointmentRequest {
	return &model.CreateAppointmentRequest{
		ClientID: f.client.ID.String(),
		BranchID: f.branch.ID.String(),
		Date:     tomorrow(),
		Slot:     slot,
	}
}

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:00"))
	require.NoError(t, err)

	assert.Regexp(t, `^APT-\d{8}-[A-F0-9]{32}$`, apt.Number)
	assert.Equal(t, model.AppointmentStatusScheduled, apt.Status)
	assert.Equal(t, "09:00", apt.Slot)
	assert.Contains(t, f.outbox.EventTypes(), "appointment.scheduled")
}

func TestCreateRejectsDoubleBooking(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.createRequest("10:30"))
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, f.createRequest("10:30"))
	assert.ErrorContains(t, err, "already booked")

	// A different slot on the same day is fine.
	_, err = f.svc.Create(ctx, f.createRequest("11:00"))
	assert.NoError(t, err)
}

func TestCreateRejectsHoliday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", tomorrow())
	require.NoError(t, f.holidays.Create(ctx, &model.Holiday{
		Date:   date,
		Name:   "Independence Day",
		Status: model.StatusActive,
	}))

	_, err := f.svc.Create(ctx, f.createRequest("09:00"))
	assert.ErrorContains(t, err, "holiday")
}

func TestCreateRejectsPastDate(t *testing.T) {
	f := newFixture(t)

	req := f.createRequest("09:00")
	req.Date = time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorContains(t, err, "past date")
}

func TestCreateRejectsInvalidSlot(t *testing.T) {
	f := newFixture(t)

	for _, slot := range []string{"07:30", "18:30", "09:15"} {
		_, err := f.svc.Create(context.Background(), f.createRequest(slot))
		assert.Error(t, err, "slot %s", slot)
	}
}

func TestCreateRejectsInactiveBranch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.branches.Deactivate(ctx, f.branch.ID))

	_, err := f.svc.Create(ctx, f.createRequest("09:00"))
	assert.ErrorContains(t, err, "branch")
}

func TestCreateRejectsInactiveClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.clients.Deactivate(ctx, f.client.ID))

	_, err := f.svc.Create(ctx, f.createRequest("09:00"))
	assert.Error(t, err)
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", tomorrow())

	avail, err := f.svc.GetAvailability(ctx, f.branch.ID, date)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 21)
	assert.False(t, avail.Holiday)

	_, err = f.svc.Create(ctx, f.createRequest("08:00"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.createRequest("14:30"))
	require.NoError(t, err)

	avail, err = f.svc.GetAvailability(ctx, f.branch.ID, date)
	require.NoError(t, err)
	assert.Len(t, avail.Slots, 19)
	assert.NotContains(t, avail.Slots, "08:00")
	assert.NotContains(t, avail.Slots, "14:30")
	assert.Contains(t, avail.Slots, "18:00")
}

func TestGetAvailabilityOnHoliday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	date, _ := time.Parse("2006-01-02", tomorrow())
	require.NoError(t, f.holidays.Create(ctx, &model.Holiday{
		Date:   date,
		Name:   "Holiday",
		Status: model.StatusActive,
	}))

	avail, err := f.svc.GetAvailability(ctx, f.branch.ID, date)
	require.NoError(t, err)
	assert.True(t, avail.Holiday)
	assert.Empty(t, avail.Slots)
}

func TestCancelReleasesSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:30"))
	require.NoError(t, err)

	cancelled, err := f.svc.Cancel(ctx, apt.ID, "client request")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "client request", *cancelled.CancelReason)
	assert.Contains(t, f.outbox.EventTypes(), "appointment.cancelled")

	// The slot opens up again.
	_, err = f.svc.Create(ctx, f.createRequest("09:30"))
	assert.NoError(t, err)
}

func TestCancelTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:30"))
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, apt.ID, "first")
	require.NoError(t, err)

	_, err = f.svc.Cancel(ctx, apt.ID, "second")
	assert.ErrorContains(t, err, "cancelled")
}

func TestStatusTransitions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:00"))
	require.NoError(t, err)

	confirmed, err := f.svc.Confirm(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, confirmed.Status)

	// Confirming twice is rejected.
	_, err = f.svc.Confirm(ctx, apt.ID)
	assert.Error(t, err)

	completed, err := f.svc.Complete(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)

	_, err = f.svc.Cancel(ctx, apt.ID, "too late")
	assert.ErrorContains(t, err, "completed")
}

func TestReschedule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:00"))
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, f.createRequest("10:00"))
	require.NoError(t, err)

	// Moving onto an occupied slot fails.
	taken := "10:00"
	_, err = f.svc.Reschedule(ctx, apt.ID, &model.UpdateAppointmentRequest{Slot: &taken})
	assert.ErrorContains(t, err, "already booked")

	// Moving to a free slot succeeds.
	free := "16:30"
	moved, err := f.svc.Reschedule(ctx, apt.ID, &model.UpdateAppointmentRequest{Slot: &free})
	require.NoError(t, err)
	assert.Equal(t, "16:30", moved.Slot)
	assert.Contains(t, f.outbox.EventTypes(), "appointment.rescheduled")

	// Updating only notes does not trip the self-conflict check.
	notes := "bring contract"
	updated, err := f.svc.Reschedule(ctx, apt.ID, &model.UpdateAppointmentRequest{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "bring contract", updated.Notes)
	assert.Equal(t, "16:30", updated.Slot)
}

func TestRescheduleCancelledFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:00"))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, apt.ID, "no longer needed")
	require.NoError(t, err)

	slot := "11:30"
	_, err = f.svc.Reschedule(ctx, apt.ID, &model.UpdateAppointmentRequest{Slot: &slot})
	assert.Error(t, err)
}

func TestGetByNumber(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	apt, err := f.svc.Create(ctx, f.createRequest("09:00"))
	require.NoError(t, err)

	found, err := f.svc.GetByNumber(ctx, apt.Number)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, found.ID)

	_, err = f.svc.GetByNumber(ctx, "not-a-number")
	assert.Error(t, err)

	_, err = f.svc.Get(ctx, uuid.New())
	assert.Error(t, err)
}

func TestCreateAppointment_TodayBookableInAnyZone(t *testing.T) {
	// Pin the wall clock to a zone whose calendar date differs from UTC at
	// this instant, so the past-date guard cannot lean on the UTC date.
	offset := -12 * 3600
	if time.Now().UTC().Hour() >= 12 {
		offset = 13 * 3600
	}
	restore := time.Local
	time.Local = time.FixedZone("test-zone", offset)
	defer func() { time.Local = restore }()

	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()

	req := f.createRequest("09:00")
	req.Date = now.Format("2006-01-02")
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err, "same-day booking must succeed in zone %s", now.Location())

	req = f.createRequest("09:30")
	req.Date = now.AddDate(0, 0, -1).Format("2006-01-02")
	_, err = f.svc.Create(ctx, req)
	assert.ErrorContains(t, err, "cannot book a past date")
}
