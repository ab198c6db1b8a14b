package store

import (
	"testing"

	"github.com/kxwm/tilewm/common"
)

func TestApplySizeHintsIdempotent(t *testing.T) {
	bounds := common.Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}
	sh := SizeHints{BaseW: 0, BaseH: 0, IncW: 8, IncH: 16, MinW: 100, MinH: 50, MaxW: 800, MaxH: 600}
	cur := common.Geometry{X: 10, Y: 10, Width: 400, Height: 300}
	want := common.Geometry{X: 10, Y: 10, Width: 403, Height: 298}

	first, changed := ApplySizeHints(cur, want, sh, 0, bounds, false, true)
	if !changed {
		t.Fatalf("expected geometry to change on first snap")
	}

	second, changed := ApplySizeHints(first, first, sh, 0, bounds, false, true)
	if changed {
		t.Errorf("re-applying hints to an already-snapped geometry changed it: %+v -> %+v", first, second)
	}
}

func TestApplySizeHintsClampsToMinMax(t *testing.T) {
	bounds := common.Geometry{X: 0, Y: 0, Width: 1920, Height: 1080}
	sh := SizeHints{MinW: 200, MinH: 100, MaxW: 400, MaxH: 300}
	cur := common.Geometry{X: 0, Y: 0, Width: 200, Height: 100}

	tooSmall := common.Geometry{X: 0, Y: 0, Width: 50, Height: 20}
	got, _ := ApplySizeHints(cur, tooSmall, sh, 0, bounds, false, true)
	if got.Width < sh.MinW || got.Height < sh.MinH {
		t.Errorf("undersized request not clamped to minimum: got %+v", got)
	}

	tooBig := common.Geometry{X: 0, Y: 0, Width: 5000, Height: 5000}
	got, _ = ApplySizeHints(cur, tooBig, sh, 0, bounds, false, true)
	if got.Width > sh.MaxW || got.Height > sh.MaxH {
		t.Errorf("oversized request not clamped to maximum: got %+v", got)
	}
}

func TestIsFixed(t *testing.T) {
	cases := []struct {
		sh   SizeHints
		want bool
	}{
		{SizeHints{MinW: 400, MinH: 300, MaxW: 400, MaxH: 300}, true},
		{SizeHints{MinW: 400, MinH: 300, MaxW: 800, MaxH: 600}, false},
		{SizeHints{}, false},
	}
	for _, c := range cases {
		if got := c.sh.IsFixed(); got != c.want {
			t.Errorf("IsFixed(%+v) = %v, want %v", c.sh, got, c.want)
		}
	}
}
