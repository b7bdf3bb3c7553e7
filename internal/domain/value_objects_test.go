package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  error
	}{
		{name: "valid name", input: "Groceries", expected: "Groceries"},
		{name: "trims whitespace", input: "  Groceries  ", expected: "Groceries"},
		{name: "empty", input: "", wantErr: ErrNameRequired},
		{name: "whitespace only", input: "   ", wantErr: ErrNameRequired},
		{name: "too long", input: strings.Repeat("a", 256), wantErr: ErrNameTooLong},
		{name: "max length", input: strings.Repeat("a", 255), expected: strings.Repeat("a", 255)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewName(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n.String())
		})
	}
}

func TestNewPriority(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Priority
		wantErr  error
	}{
		{name: "low", input: "low", expected: PriorityLow},
		{name: "medium", input: "medium", expected: PriorityMedium},
		{name: "high", input: "high", expected: PriorityHigh},
		{name: "case insensitive", input: "HIGH", expected: PriorityHigh},
		{name: "empty defaults to medium", input: "", expected: PriorityMedium},
		{name: "invalid", input: "urgent", wantErr: ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPriority(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, p)
		})
	}
}
