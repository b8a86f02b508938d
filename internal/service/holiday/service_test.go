package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serviexpress/scheduling-api/internal/model"
	"github.com/serviexpress/scheduling-api/internal/repository/memory"
	"github.com/serviexpress/scheduling-api/internal/service/audit"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(memory.NewHolidayRepository(), audit.NewService(memory.NewAuditRepository()))
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	holiday, err := svc.Create(ctx, &model.CreateHolidayRequest{
		Date: "2026-12-25",
		Name: "Christmas",
	})
	require.NoError(t, err)
	assert.Equal(t, 2026, holiday.Date.Year())
	assert.Equal(t, time.December, holiday.Date.Month())
	assert.Equal(t, model.StatusActive, holiday.Status)
}

func TestCreate_RejectsMalformedDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"25-12-2026", "2026/12/25", "2026-13-01", "tomorrow"} {
		_, err := svc.Create(ctx, &model.CreateHolidayRequest{Date: date, Name: "bad"})
		assert.Error(t, err, "date %q should be rejected", date)
	}
}

func TestIsHoliday(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	holiday, err := svc.Create(ctx, &model.CreateHolidayRequest{Date: "2026-01-01", Name: "New Year"})
	require.NoError(t, err)

	// any instant on the day counts
	blocked, err := svc.IsHoliday(ctx, holiday.Date.Add(15*time.Hour))
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.IsHoliday(ctx, holiday.Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestDeactivate_UnblocksDate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	holiday, err := svc.Create(ctx, &model.CreateHolidayRequest{Date: "2026-06-15", Name: "Maintenance"})
	require.NoError(t, err)
	require.NoError(t, svc.Deactivate(ctx, holiday.ID))

	blocked, err := svc.IsHoliday(ctx, holiday.Date)
	require.NoError(t, err)
	assert.False(t, blocked)

	listed, err := svc.ListByRange(ctx, holiday.Date.AddDate(0, 0, -1), holiday.Date.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestListByRange(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, seed := range []struct{ date, name string }{
		{"2026-01-01", "New Year"},
		{"2026-03-23", "St. Joseph"},
		{"2026-12-25", "Christmas"},
	} {
		_, err := svc.Create(ctx, &model.CreateHolidayRequest{Date: seed.date, Name: seed.name})
		require.NoError(t, err)
	}

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	listed, err := svc.ListByRange(ctx, from, to)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.True(t, listed[0].Date.Before(listed[1].Date))

	_, err = svc.ListByRange(ctx, to, from)
	assert.ErrorContains(t, err, "range end precedes range start")
}
