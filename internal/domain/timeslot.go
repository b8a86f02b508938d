package domain

import (
	"fmt"
	"time"
)

// Business hours: appointments run on a half-hour grid from 08:00 through
// 18:00 inclusive.
const (
	BusinessOpenHour  = 8
	BusinessCloseHour = 18
	SlotMinutes       = 30
)

// TimeSlot is a half-hour-aligned time of day within business hours. The
// grid alignment is what lets availability be computed with set membership
// instead of interval overlap checks.
type TimeSlot struct {
	hour   int
	minute int
}

// NewTimeSlot parses an HH:MM string and validates it against the grid.
func NewTimeSlot(raw string) (TimeSlot, error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return TimeSlot{}, newValidationError("time_slot", "must be in HH:MM format")
	}
	return NewTimeSlotFromTime(parsed)
}

// NewTimeSlotFromTime validates the time-of-day component of t.
func NewTimeSlotFromTime(t time.Time) (TimeSlot, error) {
	hour, minute := t.Hour(), t.Minute()

	if minute != 0 && minute != SlotMinutes {
		return TimeSlot{}, newValidationError("time_slot", "appointments start on the hour or half hour")
	}
	if hour < BusinessOpenHour || hour > BusinessCloseHour || (hour == BusinessCloseHour && minute > 0) {
		return TimeSlot{}, newValidationError("time_slot", "outside business hours (08:00 to 18:00)")
	}

	return TimeSlot{hour: hour, minute: minute}, nil
}

// AllTimeSlots returns every valid slot in order, 08:00 through 18:00.
func AllTimeSlots() []TimeSlot {
	var slots []TimeSlot
	for hour := BusinessOpenHour; hour <= BusinessCloseHour; hour++ {
		slots = append(slots, TimeSlot{hour: hour})
		if hour < BusinessCloseHour {
			slots = append(slots, TimeSlot{hour: hour, minute: SlotMinutes})
		}
	}
	return slots
}

func (s TimeSlot) Hour() int   { return s.hour }
func (s TimeSlot) Minute() int { return s.minute }

// Value returns the canonical HH:MM form, which is also the persisted form.
func (s TimeSlot) Value() string {
	return fmt.Sprintf("%02d:%02d", s.hour, s.minute)
}

func (s TimeSlot) String() string { return s.Value() }

// Formatted returns a 12-hour presentation form, e.g. "02:30 PM".
func (s TimeSlot) Formatted() string {
	t := time.Date(0, 1, 1, s.hour, s.minute, 0, 0, time.UTC)
	return t.Format("03:04 PM")
}

// At anchors the slot on a calendar date in the given location.
func (s TimeSlot) At(date time.Time, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), s.hour, s.minute, 0, 0, loc)
}
