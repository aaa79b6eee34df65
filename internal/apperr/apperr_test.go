package apperr

import (
	"errors"
	"testing"
)

func TestBadInput_Kind(t *testing.T) {
	err := BadInput("missing %s", "file")
	var ae *Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if ae.Kind != KindBadInput {
		t.Fatalf("expected KindBadInput, got %v", ae.Kind)
	}
	if err.Error() != "missing file" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestTransport_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := Transport(inner)
	if !errors.Is(err, inner) {
		t.Fatalf("expected errors.Is to find wrapped inner error")
	}
}
