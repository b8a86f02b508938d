package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var appointmentNumberPattern = regexp.MustCompile(`^APT-\d{8}-[A-F0-9]{32}$`)

// AppointmentNumber is the public tracking number of an appointment:
// APT-YYYYMMDD-<32 hex>. The date prefix keeps numbers chronologically
// greppable; the random suffix makes collisions negligible without a
// central sequence.
type AppointmentNumber struct {
	value string
}

// GenerateAppointmentNumber mints a fresh number from the system clock and
// 16 bytes of randomness. It never fails.
func GenerateAppointmentNumber() AppointmentNumber {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	value := fmt.Sprintf("APT-%s-%s", time.Now().Format("20060102"), strings.ToUpper(hex.EncodeToString(buf)))
	return AppointmentNumber{value: value}
}

// NewAppointmentNumber validates an existing number, accepting lower-case
// hex and normalizing to upper case.
func NewAppointmentNumber(raw string) (AppointmentNumber, error) {
	value := strings.ToUpper(strings.TrimSpace(raw))
	if value == "" {
		return AppointmentNumber{}, newValidationError("appointment_number", "appointment number is required")
	}
	if !appointmentNumberPattern.MatchString(value) {
		return AppointmentNumber{}, newValidationError("appointment_number", "must match APT-YYYYMMDD-<32 hex characters>")
	}
	return AppointmentNumber{value: value}, nil
}

func (n AppointmentNumber) Value() string  { return n.value }
func (n AppointmentNumber) String() string { return n.value }
