package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAppointmentNumber(t *testing.T) {
	number := GenerateAppointmentNumber()
	assert.Regexp(t, `^APT-\d{8}-[A-F0-9]{32}$`, number.Value())

	parsed, err := NewAppointmentNumber(number.Value())
	require.NoError(t, err)
	assert.Equal(t, number.Value(), parsed.Value())
}

func TestGenerateAppointmentNumber_Distinct(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		value := GenerateAppointmentNumber().Value()
		_, dup := seen[value]
		require.False(t, dup, "duplicate appointment number %s", value)
		seen[value] = struct{}{}
	}
}

func TestNewAppointmentNumber_CaseInsensitive(t *testing.T) {
	raw := "apt-20250115-" + strings.Repeat("ab01", 8)
	number, err := NewAppointmentNumber(raw)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(raw), number.Value())
}

func TestNewAppointmentNumber_Invalid(t *testing.T) {
	cases := []string{
		"",
		"APT-20250115",
		"APT-2025011-" + strings.Repeat("A", 32),
		"APT-20250115-" + strings.Repeat("A", 31),
		"APT-20250115-" + strings.Repeat("G", 32),
		"APX-20250115-" + strings.Repeat("A", 32),
	}
	for _, raw := range cases {
		_, err := NewAppointmentNumber(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
