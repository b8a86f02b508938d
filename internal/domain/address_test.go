package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAddress(t *testing.T) {
	addr, err := NewAddress("Calle 45 #12-34", "Bogotá", "Cundinamarca", "110111")
	require.NoError(t, err)
	assert.Equal(t, "Calle 45 #12-34", addr.Street())
	assert.Equal(t, "Bogotá", addr.City())
	assert.Equal(t, "Cundinamarca", addr.State())
	assert.Equal(t, "110111", addr.PostalCode())
}

func TestNewAddress_PostalCodeOptional(t *testing.T) {
	addr, err := NewAddress("Carrera 7 #71-21", "Medellín", "Antioquia", "")
	require.NoError(t, err)
	assert.Empty(t, addr.PostalCode())
	assert.Equal(t, "Carrera 7 #71-21, Medellín, Antioquia", addr.String())
}

func TestNewAddress_Trims(t *testing.T) {
	addr, err := NewAddress("  Calle 10 #5-51  ", " Cali ", " Valle ", " 760001 ")
	require.NoError(t, err)
	assert.Equal(t, "Calle 10 #5-51", addr.Street())
	assert.Equal(t, "Cali", addr.City())
}

func TestNewAddress_Invalid(t *testing.T) {
	tests := []struct {
		name                string
		street, city, state string
		wantField           string
	}{
		{"empty street", "", "Bogotá", "Cundinamarca", "street"},
		{"short street", "C 1", "Bogotá", "Cundinamarca", "street"},
		{"whitespace street", "    ", "Bogotá", "Cundinamarca", "street"},
		{"empty city", "Calle 45 #12-34", "", "Cundinamarca", "city"},
		{"short city", "Calle 45 #12-34", "B", "Cundinamarca", "city"},
		{"empty state", "Calle 45 #12-34", "Bogotá", "", "state"},
		{"short state", "Calle 45 #12-34", "Bogotá", "C", "state"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAddress(tt.street, tt.city, tt.state, "")
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
