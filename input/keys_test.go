package input

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestNameToKeysym(t *testing.T) {
	if ks, ok := NameToKeysym("Return"); !ok || ks != 0xff0d {
		t.Errorf("NameToKeysym(Return) = (%v, %v), want (0xff0d, true)", ks, ok)
	}
	if ks, ok := NameToKeysym("t"); !ok || ks != 0x0074 {
		t.Errorf("NameToKeysym(t) = (%v, %v), want (0x74, true)", ks, ok)
	}
	if _, ok := NameToKeysym("NoSuchKey"); ok {
		t.Errorf("expected unknown keysym name to report false")
	}
}

func TestModifierCombos(t *testing.T) {
	const base uint16 = 1 << 3 // Mod1
	const numlock uint16 = 1 << 4

	combos := modifierCombos(base, numlock)
	if len(combos) != 4 {
		t.Fatalf("expected 4 modifier combos, got %d", len(combos))
	}

	want := map[uint16]bool{
		base:                                     true,
		base | numlock:                           true,
		base | xproto.ModMaskLock:                true,
		base | numlock | xproto.ModMaskLock:      true,
	}
	for _, c := range combos {
		if !want[c] {
			t.Errorf("unexpected modifier combo %v not in expected set", c)
		}
		delete(want, c)
	}
	if len(want) != 0 {
		t.Errorf("missing expected modifier combos: %v", want)
	}
}
