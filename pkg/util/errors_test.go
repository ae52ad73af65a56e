package util

import (
	"errors"
	"strings"
	"testing"
)

func TestUnsupportedModeError(t *testing.T) {
	err := NewUnsupportedModeError("AA:BB:CC:DD:EE:FF", "hsi", "infinity-lite", "infinity-lite has no HSI opcode")
	msg := err.Error()
	for _, want := range []string{"AA:BB:CC:DD:EE:FF", "hsi", "infinity-lite"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, want substring %q", msg, want)
		}
	}
	if !errors.Is(err, ErrUnsupportedMode) {
		t.Error("UnsupportedModeError should unwrap to ErrUnsupportedMode")
	}
}

func TestTransportError(t *testing.T) {
	inner := errors.New("gatt write failed")
	err := NewTransportError("AA:BB:CC:DD:EE:FF", "write", inner)
	if !errors.Is(err, inner) {
		t.Error("TransportError should unwrap to its wrapped cause")
	}
	if !strings.Contains(err.Error(), "gatt write failed") {
		t.Errorf("Error() = %q, want it to contain the cause", err.Error())
	}
}

func TestValidationBuilder(t *testing.T) {
	t.Run("no errors", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(true, "should not appear")
		if v.HasErrors() {
			t.Error("should not have errors when all conditions are true")
		}
		if err := v.Build(); err != nil {
			t.Errorf("Build() = %v, want nil", err)
		}
	})

	t.Run("with errors", func(t *testing.T) {
		v := &ValidationBuilder{}
		v.Add(false, "first error")
		v.AddError("unconditional")
		v.AddErrorf("formatted %d", 1)

		err := v.Build()
		if err == nil {
			t.Fatal("Build() should return an error")
		}
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Fatalf("expected *ValidationError, got %T", err)
		}
		if len(ve.Errors) != 3 {
			t.Errorf("len(Errors) = %d, want 3", len(ve.Errors))
		}
		if !errors.Is(err, ErrValidationFailed) {
			t.Error("should unwrap to ErrValidationFailed")
		}
	})
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotConnected, ErrUnsupportedMode, ErrTransport, ErrTimeout,
		ErrInvalidConfig, ErrValidationFailed, ErrUnknownSelector,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel %v should be distinct from %v", a, b)
			}
		}
	}
}
