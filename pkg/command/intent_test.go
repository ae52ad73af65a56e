package command

import "testing"

func intPtrT(i int) *int    { return &i }
func strPtrT(s string) *string { return &s }

func TestOverlayOnlyAppliesNonNilFields(t *testing.T) {
	base := Default()
	patch := Intent{Bri: intPtrT(40)}

	got := Overlay(base, patch)

	if *got.Bri != 40 {
		t.Errorf("Bri = %d, want 40 (explicit patch must win)", *got.Bri)
	}
	if *got.Temp != 56 {
		t.Errorf("Temp = %d, want 56 (unset patch field must fall through to base)", *got.Temp)
	}
}

func TestOverlayChaining(t *testing.T) {
	base := Default()
	configDefaults := Intent{Temp: intPtrT(45)}
	preset := Intent{Bri: intPtrT(20), Mode: strPtrT(ModeHSI)}
	cliFlags := Intent{Hue: intPtrT(180)}

	got := Overlay(Overlay(Overlay(base, configDefaults), preset), cliFlags)

	if *got.Temp != 45 {
		t.Errorf("Temp = %d, want 45 from config defaults", *got.Temp)
	}
	if *got.Bri != 20 {
		t.Errorf("Bri = %d, want 20 from preset", *got.Bri)
	}
	if *got.Hue != 180 {
		t.Errorf("Hue = %d, want 180 from explicit CLI flag", *got.Hue)
	}
	if *got.Mode != ModeHSI {
		t.Errorf("Mode = %q, want HSI from preset", *got.Mode)
	}
}
