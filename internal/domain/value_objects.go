package domain

import (
	"fmt"
	"strings"
)

// Name is a validated entity name value object (1-255 characters).
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

// NewPriority validates and creates a Priority.
// An empty value defaults to medium.
func NewPriority(s string) (Priority, error) {
	if s == "" {
		return PriorityMedium, nil
	}

	priority := Priority(strings.ToLower(s))

	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return priority, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidPriority, s)
	}
}
