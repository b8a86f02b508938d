package domain

import (
	"regexp"
	"strings"
)

const countryCode = "57"

var (
	nonDigitPattern  = regexp.MustCompile(`[^\d+]`)
	landlinePattern  = regexp.MustCompile(`^\d{7,10}$`)
	mobilePattern    = regexp.MustCompile(`^3\d{9}$`)
	maxLocalPhoneLen = 10
)

// PhoneNumber is a validated Colombian phone number, stored without the
// country code. Mobile numbers are ten digits starting with 3.
type PhoneNumber struct {
	value    string
	isMobile bool
}

// NewPhoneNumber cleans and validates raw. When asMobile is set, the
// stricter mobile pattern applies; otherwise any local number passes.
func NewPhoneNumber(raw string, asMobile bool) (PhoneNumber, error) {
	cleaned := cleanPhone(raw)
	if cleaned == "" {
		return PhoneNumber{}, newValidationError("phone_number", "phone number is required")
	}

	if asMobile {
		if !mobilePattern.MatchString(cleaned) {
			return PhoneNumber{}, newValidationError("phone_number", "mobile numbers must be 10 digits starting with 3")
		}
		return PhoneNumber{value: cleaned, isMobile: true}, nil
	}

	if !landlinePattern.MatchString(cleaned) {
		return PhoneNumber{}, newValidationError("phone_number", "phone numbers must be 7 to 10 digits")
	}
	return PhoneNumber{value: cleaned, isMobile: mobilePattern.MatchString(cleaned)}, nil
}

// cleanPhone strips formatting characters, then a leading +57 or bare 57
// country prefix. The prefix is only removed while the remainder is still
// longer than a plain local number, so a 7-digit landline starting with 57
// is left alone.
func cleanPhone(raw string) string {
	cleaned := nonDigitPattern.ReplaceAllString(strings.TrimSpace(raw), "")
	cleaned = strings.TrimPrefix(cleaned, "+")
	if strings.HasPrefix(cleaned, countryCode) && len(cleaned)-len(countryCode) >= maxLocalPhoneLen {
		cleaned = cleaned[len(countryCode):]
	}
	return cleaned
}

func (p PhoneNumber) Value() string  { return p.value }
func (p PhoneNumber) IsMobile() bool { return p.isMobile }

func (p PhoneNumber) String() string { return p.value }

// Formatted returns the number with the country prefix for display.
func (p PhoneNumber) Formatted() string {
	return "+" + countryCode + " " + p.value
}
