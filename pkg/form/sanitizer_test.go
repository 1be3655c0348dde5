package form

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/devcraft/pkg/domain"
)

func TestSanitize_SizeLimit(t *testing.T) {
	limit := DefaultMaxInputSize

	tests := []struct {
		name      string
		inputSize int
		wantErr   bool
	}{
		{"Under Limit", limit - 1, false},
		{"Exact Limit", limit, false},
		{"Over Limit", limit + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := strings.Repeat("a", tt.inputSize)
			_, err := Sanitize(input)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrInputTooLarge) {
					t.Errorf("Sanitize() expected ErrInputTooLarge for size %d, got %v", tt.inputSize, err)
				}
			} else if err != nil {
				t.Errorf("Sanitize() unexpected error: %v", err)
			}
		})
	}
}

func TestSanitize_ControlChars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Normal Text", "Hello World", "Hello World"},
		{"Multi-line Message", "Line1\r\nLine2\tTabbed", "Line1\r\nLine2\tTabbed"},
		{"ANSI Code", "\x1b[31mRed\x1b[0m", "[31mRed[0m"},
		{"Null Byte", "Null\x00Byte", "NullByte"},
		{"Bell", "Ding\x07", "Ding"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize(tt.input)
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSanitize_EnvOverride(t *testing.T) {
	t.Setenv(EnvMaxInputSize, "10")

	if _, err := Sanitize("12345678901"); err == nil {
		t.Error("Expected error for input > 10 when env var is set")
	}
	if _, err := Sanitize("12345"); err != nil {
		t.Error("Unexpected error for valid input")
	}
}

func TestSanitize_InvalidUTF8(t *testing.T) {
	input := "\xbd\xb2\x3d\xbc\x20\xe2\x8c\x98"
	_, err := Sanitize(input)
	if err != domain.ErrInvalidUTF8 {
		t.Errorf("Expected ErrInvalidUTF8, got %v", err)
	}
}
