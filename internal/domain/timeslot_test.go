package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeSlot_Valid(t *testing.T) {
	for _, raw := range []string{"08:00", "08:30", "12:00", "17:30", "18:00"} {
		slot, err := NewTimeSlot(raw)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, raw, slot.Value())
	}
}

func TestNewTimeSlot_Invalid(t *testing.T) {
	cases := map[string]string{
		"07:30": "before opening",
		"18:30": "after closing",
		"09:15": "off the half-hour grid",
		"24:00": "not a time",
		"8am":   "wrong format",
		"":      "empty",
	}
	for raw, why := range cases {
		_, err := NewTimeSlot(raw)
		assert.Error(t, err, "%s (%s)", raw, why)
	}
}

func TestNewTimeSlotFromTime(t *testing.T) {
	slot, err := NewTimeSlotFromTime(time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "14:30", slot.Value())

	_, err = NewTimeSlotFromTime(time.Date(2025, 3, 10, 6, 0, 0, 0, time.UTC))
	assert.Error(t, err)
}

func TestTimeSlot_Formatted(t *testing.T) {
	slot, err := NewTimeSlot("14:30")
	require.NoError(t, err)
	assert.Equal(t, "02:30 PM", slot.Formatted())

	slot, err = NewTimeSlot("08:00")
	require.NoError(t, err)
	assert.Equal(t, "08:00 AM", slot.Formatted())
}

func TestAllTimeSlots(t *testing.T) {
	slots := AllTimeSlots()
	// 08:00 through 17:30 on the half hour, plus 18:00
	assert.Len(t, slots, 21)
	assert.Equal(t, "08:00", slots[0].Value())
	assert.Equal(t, "18:00", slots[len(slots)-1].Value())

	for _, slot := range slots {
		_, err := NewTimeSlot(slot.Value())
		assert.NoError(t, err)
	}
}

func TestTimeSlot_At(t *testing.T) {
	slot, err := NewTimeSlot("09:30")
	require.NoError(t, err)

	at := slot.At(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), time.UTC)
	assert.Equal(t, time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC), at)
}
