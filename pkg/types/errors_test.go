package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestPlatformError_Format(t *testing.T) {
	err := NewPlatformError("kalshi", "unexpected status code %d", 503)

	want := "[kalshi] unexpected status code 503"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}

func TestWrapPlatformError(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapPlatformError("predictit", cause)

	if err.Error() != "[predictit] connection refused" {
		t.Errorf("unexpected message: %s", err.Error())
	}

	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match cause via errors.Is")
	}
}

func TestPlatformError_As(t *testing.T) {
	var err error = fmt.Errorf("fan-out: %w", NewPlatformError("manifold", "API timeout"))

	var pe *PlatformError
	if !errors.As(err, &pe) {
		t.Fatal("expected errors.As to find *PlatformError")
	}

	if pe.Platform != "manifold" {
		t.Errorf("expected platform manifold, got %s", pe.Platform)
	}
}

func TestInvalidArgumentError(t *testing.T) {
	err := NewInvalidArgument("unknown platform: %s", "bovada")

	if err.Error() != "unknown platform: bovada" {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

func TestInvariantViolation(t *testing.T) {
	err := NewInvariantViolation("probability %f outside [0,1]", 1.2)

	want := "invariant violation: probability 1.200000 outside [0,1]"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
