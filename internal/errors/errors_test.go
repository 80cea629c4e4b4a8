package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/julianstephens/weekslot/internal/constants"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      stderrors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	got := Formatf("failed to load %s", "week")
	if got != "Error: failed to load week" {
		t.Errorf("Formatf() = %q", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fallback string
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			fallback: "Booking failed",
			expected: "",
		},
		{
			name:     "rejection is surfaced verbatim",
			err:      Reject("book", 400, "This slot is already booked"),
			fallback: "Booking failed",
			expected: "This slot is already booked",
		},
		{
			name:     "wrapped rejection",
			err:      fmt.Errorf("book slot 3: %w", Reject("book", 403, "You did not book this slot")),
			fallback: "Unbook failed",
			expected: "You did not book this slot",
		},
		{
			name:     "rejection without message uses fallback",
			err:      Reject("book", 400, ""),
			fallback: "Booking failed",
			expected: "Booking failed",
		},
		{
			name:     "transport failure is generic",
			err:      Transport("list slots", stderrors.New("connection refused")),
			fallback: "Failed to load timeslots",
			expected: constants.MsgUnreachable,
		},
		{
			name:     "validation errors",
			err:      ValidationErrors{{Field: "title", Message: "is required"}, {Field: "end", Message: "must be after start"}},
			fallback: "Failed to create slot",
			expected: "title: is required; end: must be after start",
		},
		{
			name:     "unknown error uses fallback",
			err:      stderrors.New("boom"),
			fallback: "Booking failed",
			expected: "Booking failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, tt.fallback); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestClassifiers(t *testing.T) {
	rej := fmt.Errorf("wrap: %w", Reject("unbook", 403, "nope"))
	tr := fmt.Errorf("wrap: %w", Transport("book", stderrors.New("timeout")))
	val := fmt.Errorf("wrap: %w", ValidationError{Field: "title", Message: "is required"})

	if !IsRejection(rej) || IsRejection(tr) || IsRejection(val) {
		t.Error("IsRejection() misclassified")
	}
	if !IsTransport(tr) || IsTransport(rej) {
		t.Error("IsTransport() misclassified")
	}
	if !IsValidation(val) || IsValidation(rej) {
		t.Error("IsValidation() misclassified")
	}
}

func TestTransportFailureUnwrap(t *testing.T) {
	cause := stderrors.New("dial tcp: refused")
	err := Transport("list categories", cause)
	if !stderrors.Is(err, cause) {
		t.Error("TransportFailure should unwrap to its cause")
	}
}
