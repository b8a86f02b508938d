package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPhoneNumber_Mobile(t *testing.T) {
	for _, raw := range []string{"3001234567", "+57 3001234567", "573001234567", "300-123-4567"} {
		phone, err := NewPhoneNumber(raw, true)
		require.NoError(t, err, "input %q", raw)
		assert.Equal(t, "3001234567", phone.Value())
		assert.True(t, phone.IsMobile())
	}
}

func TestNewPhoneNumber_MobileRejectsNonMobile(t *testing.T) {
	for _, raw := range []string{"6011234567", "1234567", "300123456", "30012345678"} {
		_, err := NewPhoneNumber(raw, true)
		assert.Error(t, err, "input %q", raw)
	}
}

func TestNewPhoneNumber_Landline(t *testing.T) {
	phone, err := NewPhoneNumber("6011234", false)
	require.NoError(t, err)
	assert.Equal(t, "6011234", phone.Value())
	assert.False(t, phone.IsMobile())
}

func TestNewPhoneNumber_LandlineStartingWithCountryDigitsKept(t *testing.T) {
	// 7-digit landline starting with 57 must not lose its first digits
	phone, err := NewPhoneNumber("5712345", false)
	require.NoError(t, err)
	assert.Equal(t, "5712345", phone.Value())
}

func TestNewPhoneNumber_MobileDetectedWithoutFlag(t *testing.T) {
	phone, err := NewPhoneNumber("3001234567", false)
	require.NoError(t, err)
	assert.True(t, phone.IsMobile())
}

func TestNewPhoneNumber_Invalid(t *testing.T) {
	for _, raw := range []string{"", "123", "abcdefgh", "123456789012345"} {
		_, err := NewPhoneNumber(raw, false)
		assert.Error(t, err, "input %q", raw)
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	}
}

func TestPhoneNumber_Formatted(t *testing.T) {
	phone, err := NewPhoneNumber("+573001234567", true)
	require.NoError(t, err)
	assert.Equal(t, "+57 3001234567", phone.Formatted())
}
