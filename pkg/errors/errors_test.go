package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad node: %s", "n1")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "bad node: n1" {
		t.Errorf("Message = %v, want %v", err.Message, "bad node: n1")
	}

	expected := "INVALID_INPUT: bad node: n1"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write snapshot")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if got, want := err.Error(), "INTERNAL_ERROR: write snapshot: disk full"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStructuralConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *Error
		code       Code
		structural bool
	}{
		{"root not found", RootNotFound("r"), ErrCodeRootNotFound, true},
		{"cycle", CyclicStructure("b"), ErrCodeCyclicStructure, true},
		{"node not found", NodeNotFound("x"), ErrCodeNodeNotFound, false},
		{"geometry", InvalidGeometry("x is %v", "NaN"), ErrCodeInvalidGeometry, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %v, want %v", tt.err.Code, tt.code)
			}
			if got := IsStructural(tt.err); got != tt.structural {
				t.Errorf("IsStructural() = %v, want %v", got, tt.structural)
			}
		})
	}
}

func TestCycleNode(t *testing.T) {
	wrapped := fmt.Errorf("layout: %w", CyclicStructure("B"))

	id, ok := CycleNode(wrapped)
	if !ok || id != "B" {
		t.Errorf("CycleNode() = (%q, %v), want (%q, true)", id, ok, "B")
	}

	if _, ok := CycleNode(RootNotFound("B")); ok {
		t.Error("CycleNode() on ROOT_NOT_FOUND reported ok")
	}
	if _, ok := CycleNode(errors.New("plain")); ok {
		t.Error("CycleNode() on plain error reported ok")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidInput,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeInvalidInput, "test"),
			code:     ErrCodeInvalidGeometry,
			expected: false,
		},
		{
			name:     "wrapped by fmt",
			err:      fmt.Errorf("solve: %w", RootNotFound("root")),
			code:     ErrCodeRootNotFound,
			expected: true,
		},
		{
			name:     "outer code wins",
			err:      Wrap(ErrCodeInternal, New(ErrCodeInvalidInput, "inner"), "outer"),
			code:     ErrCodeInternal,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeInvalidStyle, "test"), ErrCodeInvalidStyle},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}
