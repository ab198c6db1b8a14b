package common

import "testing"

func TestClampInt(t *testing.T) {
	if got := ClampInt(5, 0, 10); got != 5 {
		t.Errorf("ClampInt(5, 0, 10) = %d, want 5", got)
	}
	if got := ClampInt(-5, 0, 10); got != 0 {
		t.Errorf("ClampInt(-5, 0, 10) = %d, want 0", got)
	}
	if got := ClampInt(50, 0, 10); got != 10 {
		t.Errorf("ClampInt(50, 0, 10) = %d, want 10", got)
	}
}

func TestClampFloat(t *testing.T) {
	if got := ClampFloat(0.95, 0.05, 0.95); got != 0.95 {
		t.Errorf("ClampFloat(0.95, 0.05, 0.95) = %v, want 0.95", got)
	}
	if got := ClampFloat(1.5, 0.05, 0.95); got != 0.95 {
		t.Errorf("ClampFloat(1.5, 0.05, 0.95) = %v, want 0.95", got)
	}
	if got := ClampFloat(-1, 0.05, 0.95); got != 0.05 {
		t.Errorf("ClampFloat(-1, 0.05, 0.95) = %v, want 0.05", got)
	}
}

func TestMatchSubstring(t *testing.T) {
	if !MatchSubstring("firefox", "Firefox-bin") {
		t.Errorf("expected case-insensitive substring match to succeed")
	}
	if MatchSubstring("", "anything") {
		t.Errorf("expected empty pattern to never match")
	}
	if MatchSubstring("gimp", "firefox") {
		t.Errorf("expected non-matching substring to fail")
	}
}

func TestIsInList(t *testing.T) {
	list := []string{"a", "b", "c"}
	if !IsInList("b", list) {
		t.Errorf("expected IsInList to find present element")
	}
	if IsInList("z", list) {
		t.Errorf("expected IsInList to reject absent element")
	}
}

func TestAllZero(t *testing.T) {
	if !AllZero([]uint{0, 0, 0}) {
		t.Errorf("expected all-zero slice to report true")
	}
	if AllZero([]uint{0, 1, 0}) {
		t.Errorf("expected slice with a nonzero element to report false")
	}
	if !AllZero(nil) {
		t.Errorf("expected empty slice to report true")
	}
}
