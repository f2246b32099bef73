package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindsClassifyWrappedErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"no active event", ErrNoActiveEvent, ErrNotFound},
		{"invalid weight", ErrInvalidWeight, ErrInvalidInput},
		{"missing upload", ErrMissingUpload, ErrMissingEvidence},
		{"wrapped", fmt.Errorf("submit catch: %w", ErrMissingUpload), ErrMissingEvidence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if !IsUserFacing(tt.err) {
				t.Fatalf("expected %v to be user facing", tt.err)
			}
		})
	}
}

func TestConflictIsNotUserFacing(t *testing.T) {
	if IsUserFacing(fmt.Errorf("upsert result: %w", ErrConflict)) {
		t.Fatal("conflict must not be treated as a user-facing outcome")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Fatal("plain errors must not be user facing")
	}
}

func TestErrorMessageIsVerbatim(t *testing.T) {
	err := fmt.Errorf("x: %w", ErrNoActiveEvent)
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatal("expected *Error in chain")
	}
	if ae.Error() != "there is no open event right now" {
		t.Fatalf("unexpected message %q", ae.Error())
	}
}
