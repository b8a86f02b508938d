package domain

import "strings"

const (
	minStreetLen = 5
	minCityLen   = 2
	minStateLen  = 2
)

// Address is a validated postal address. The postal code is optional;
// everything else must survive trimming with a minimum length.
type Address struct {
	street     string
	city       string
	state      string
	postalCode string
}

func NewAddress(street, city, state, postalCode string) (Address, error) {
	street = strings.TrimSpace(street)
	city = strings.TrimSpace(city)
	state = strings.TrimSpace(state)
	postalCode = strings.TrimSpace(postalCode)

	switch {
	case street == "":
		return Address{}, newValidationError("street", "street is required")
	case len(street) < minStreetLen:
		return Address{}, newValidationError("street", "street must be at least 5 characters")
	case city == "":
		return Address{}, newValidationError("city", "city is required")
	case len(city) < minCityLen:
		return Address{}, newValidationError("city", "city must be at least 2 characters")
	case state == "":
		return Address{}, newValidationError("state", "state is required")
	case len(state) < minStateLen:
		return Address{}, newValidationError("state", "state must be at least 2 characters")
	}

	return Address{
		street:     street,
		city:       city,
		state:      state,
		postalCode: postalCode,
	}, nil
}

func (a Address) Street() string     { return a.street }
func (a Address) City() string       { return a.city }
func (a Address) State() string      { return a.state }
func (a Address) PostalCode() string { return a.postalCode }

func (a Address) String() string {
	parts := []string{a.street, a.city, a.state}
	if a.postalCode != "" {
		parts = append(parts, a.postalCode)
	}
	return strings.Join(parts, ", ")
}
