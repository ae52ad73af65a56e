package command

import (
	"testing"

	"github.com/neewerctl/neewerctl/pkg/protocol"
)

func TestToBaseCommandPowerWinsOverMode(t *testing.T) {
	on := true
	intent := Intent{On: &on, Mode: strPtrT(ModeHSI)}

	cmd, err := ToBaseCommand(intent, false)
	if err != nil {
		t.Fatalf("ToBaseCommand: %v", err)
	}
	if cmd.Mode != protocol.ModePower {
		t.Errorf("Mode = %v, want ModePower", cmd.Mode)
	}
}

func TestToBaseCommandCCTMissingFieldsFail(t *testing.T) {
	intent := Intent{Mode: strPtrT(ModeCCT), Bri: intPtrT(50)}
	if _, err := ToBaseCommand(intent, false); err == nil {
		t.Fatal("expected a validation error for missing temp")
	}
}

func TestToBaseCommandCCTSucceeds(t *testing.T) {
	intent := Default()
	cmd, err := ToBaseCommand(intent, false)
	if err != nil {
		t.Fatalf("ToBaseCommand: %v", err)
	}
	if cmd.Mode != protocol.ModeCCT {
		t.Errorf("Mode = %v, want ModeCCT", cmd.Mode)
	}
}

func TestToBaseCommandSceneShortWithoutExtendedSupport(t *testing.T) {
	intent := Overlay(Default(), Intent{Mode: strPtrT(ModeScene), Scene: intPtrT(5)})
	cmd, err := ToBaseCommand(intent, false)
	if err != nil {
		t.Fatalf("ToBaseCommand: %v", err)
	}
	if cmd.Extended {
		t.Error("expected short-form scene when the fixture has no extended-scene support")
	}
}

func TestToBaseCommandSceneExtendedWithSupport(t *testing.T) {
	intent := Overlay(Default(), Intent{Mode: strPtrT(ModeScene), Scene: intPtrT(5)})
	cmd, err := ToBaseCommand(intent, true)
	if err != nil {
		t.Fatalf("ToBaseCommand: %v", err)
	}
	if !cmd.Extended {
		t.Error("expected extended-form scene when the fixture supports it")
	}
}

func TestToBaseCommandUnknownModeFails(t *testing.T) {
	intent := Intent{Mode: strPtrT("BOGUS")}
	if _, err := ToBaseCommand(intent, false); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}
