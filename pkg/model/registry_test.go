package model

import "testing"

func TestCorrectName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"NEEWER-20200015-AB", "RGB1"},
		{"NEEWER-UNKNOWN-1234", "NEEWER-UNKNOWN-1234"},
	}
	for _, tt := range tests {
		if got := CorrectName(tt.name); got != tt.want {
			t.Errorf("CorrectName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestLookupReverseScanDisambiguates(t *testing.T) {
	// "RGB176" should win over the shorter "RGB1" prefix because the
	// table is scanned in reverse and RGB176 sorts after RGB1.
	_, _, _, dialect := Lookup("RGB176")
	if dialect != Classic {
		t.Errorf("Lookup(RGB176) dialect = %v, want Classic", dialect)
	}

	_, _, _, dialect = Lookup("RGB1")
	if dialect != Infinity {
		t.Errorf("Lookup(RGB1) dialect = %v, want Infinity", dialect)
	}
}

func TestLookupApolloIsCCTOnlyAtFixedTemp(t *testing.T) {
	min, max, cctOnly, dialect := Lookup("Apollo 150D")
	if min != 5600 || max != 5600 || !cctOnly || dialect != Classic {
		t.Errorf("Lookup(Apollo) = (%d,%d,%v,%v), want (5600,5600,true,Classic)", min, max, cctOnly, dialect)
	}
}

func TestLookupDefaultsForUnknownName(t *testing.T) {
	min, max, cctOnly, dialect := Lookup("TOTALLY-UNKNOWN-MODEL")
	if min != 3200 || max != 5600 || cctOnly || dialect != Classic {
		t.Errorf("Lookup(unknown) = (%d,%d,%v,%v), want (3200,5600,false,Classic)", min, max, cctOnly, dialect)
	}
}

func TestIsNeewerDevice(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"NEEWER-RGB1-AB", true},
		{"NW-SL90-1", true},
		{"SL90 Pro", true},
		{"NWR-12345", true},
		{"RandomSpeaker", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsNeewerDevice(tt.name); got != tt.want {
			t.Errorf("IsNeewerDevice(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSupportsStatusQuery(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"SL90 Pro", true},
		{"RGB1200", true},
		{"FS230B", false},
		{"CB60B", false},
		{"MS60B", false},
		{"TotallyUnknown", false},
	}
	for _, tt := range tests {
		if got := SupportsStatusQuery(tt.name); got != tt.want {
			t.Errorf("SupportsStatusQuery(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSupportsExtendedScene(t *testing.T) {
	if !SupportsExtendedScene(Infinity, false) {
		t.Error("Infinity non-CCT-only should support extended scene")
	}
	if SupportsExtendedScene(Infinity, true) {
		t.Error("CCT-only fixtures should never support extended scene")
	}
	if SupportsExtendedScene(Classic, false) {
		t.Error("Classic dialect should not support extended scene")
	}
}
