package timecode

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	expected := []string{
		"No error",
		"Invalid timecode format",
		"Invalid parameter",
		"Position out of range",
	}

	for i, want := range expected {
		err := Error(i)
		got := err.Error()
		if got != want {
			t.Errorf("Error(%d).Error() = %q, want %q", i, got, want)
		}
	}
}

func TestErrNone(t *testing.T) {
	if ErrNone != Error(0) {
		t.Error("ErrNone should be Error(0)")
	}
	if ErrNone.Error() != "No error" {
		t.Error("ErrNone.Error() should be 'No error'")
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		code Error
		want string
	}{
		{ErrNone, "No error"},
		{ErrInvalidFormat, "Invalid timecode format"},
		{ErrInvalidPosition, "Position out of range"},
		{Error(255), "unknown error"}, // Unknown error code
		{Error(-1), "unknown error"},
	}

	for _, tt := range tests {
		got := GetErrorMessage(tt.code)
		if got != tt.want {
			t.Errorf("GetErrorMessage(%d) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestErrorWrapping(t *testing.T) {
	err := fmt.Errorf("%w: speed %v", ErrInvalidParameter, -1.0)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Error("wrapped error should match ErrInvalidParameter")
	}
	if errors.Is(err, ErrInvalidFormat) {
		t.Error("wrapped error should not match ErrInvalidFormat")
	}
	var code Error
	if !errors.As(err, &code) || code != ErrInvalidParameter {
		t.Errorf("errors.As: got %v", code)
	}
}
