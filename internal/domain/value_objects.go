package domain

import (
	"fmt"
	"strings"
)

// Name is a validated name value object (1-255 characters).
type Name struct {
	value string
}

// NewName creates a new Name, validating the input.
func NewName(s string) (Name, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Name{}, ErrNameRequired
	}

	if len(s) > 255 {
		return Name{}, ErrNameTooLong
	}

	return Name{value: s}, nil
}

// String returns the name value.
func (n Name) String() string {
	return n.value
}

// NewFrequency validates and creates a Frequency.
func NewFrequency(s string) (Frequency, error) {
	freq := Frequency(strings.ToUpper(s))

	switch freq {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return freq, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidFrequency, s)
	}
}
