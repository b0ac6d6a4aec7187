//go:build !display_ea && !mode_power && !debug_local

package board

import "testing"

// Without tags the build is a SURE matrix in countdown mode, debug off.
func TestSelectors_Defaults(t *testing.T) {
	if Display != DisplaySURE {
		t.Fatalf("Display = %v, want sure", Display)
	}
	if Mode != ModeCountdown {
		t.Fatalf("Mode = %v, want countdown", Mode)
	}
	if DebugLocal {
		t.Fatal("DebugLocal = true, want false")
	}
	if int(Display) != 0 || int(Mode) != 1 {
		t.Fatalf("selector values = %d/%d, want 0/1", Display, Mode)
	}
}
