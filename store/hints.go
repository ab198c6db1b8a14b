package store

import (
	"github.com/jezek/xgbutil/icccm"

	"github.com/kxwm/tilewm/common"
)

// SizeHints is the parsed subset of WM_NORMAL_HINTS this core honors.
type SizeHints struct {
	BaseW, BaseH int
	IncW, IncH   int
	MinW, MinH   int
	MaxW, MaxH   int
	MinA, MaxA   float64 // height/width and width/height aspect bounds
}

// ParseSizeHints converts an icccm.NormalHints reply into the fields
// apply_size_hints needs, defaulting absent fields the way ICCCM 4.1.2.3
// specifies: an absent base size falls back to the min size and an absent
// min size to the base size; absent increments stay zero and absent
// aspect bounds stay unset.
func ParseSizeHints(h *icccm.NormalHints) SizeHints {
	sh := SizeHints{}
	if h == nil {
		return sh
	}
	if h.Flags&icccm.SizeHintPBaseSize != 0 {
		sh.BaseW, sh.BaseH = int(h.BaseWidth), int(h.BaseHeight)
	} else if h.Flags&icccm.SizeHintPMinSize != 0 {
		sh.BaseW, sh.BaseH = int(h.MinWidth), int(h.MinHeight)
	}
	if h.Flags&icccm.SizeHintPResizeInc != 0 {
		sh.IncW, sh.IncH = int(h.WidthInc), int(h.HeightInc)
	}
	if h.Flags&icccm.SizeHintPMinSize != 0 {
		sh.MinW, sh.MinH = int(h.MinWidth), int(h.MinHeight)
	} else if h.Flags&icccm.SizeHintPBaseSize != 0 {
		sh.MinW, sh.MinH = int(h.BaseWidth), int(h.BaseHeight)
	}
	if h.Flags&icccm.SizeHintPMaxSize != 0 {
		sh.MaxW, sh.MaxH = int(h.MaxWidth), int(h.MaxHeight)
	}
	if h.Flags&icccm.SizeHintPAspect != 0 && h.MinAspectNum != 0 && h.MinAspectDen != 0 {
		sh.MinA = float64(h.MinAspectDen) / float64(h.MinAspectNum)
		sh.MaxA = float64(h.MaxAspectNum) / float64(h.MaxAspectDen)
	}
	return sh
}

// IsFixed reports whether a client's size hints pin it to exactly one
// size (min == max in both dimensions), forcing it floating.
func (sh SizeHints) IsFixed() bool {
	return sh.MaxW > 0 && sh.MaxH > 0 && sh.MaxW == sh.MinW && sh.MaxH == sh.MinH
}

// ApplySizeHints snaps a requested geometry to a legal one. It returns
// the adjusted geometry and whether it differs from cur, so callers can
// skip a no-op X round-trip.
func ApplySizeHints(cur common.Geometry, want common.Geometry, sh SizeHints, barHeight int, bounds common.Geometry, interact bool, respectHints bool) (common.Geometry, bool) {
	x, y, w, h := want.X, want.Y, want.Width, want.Height

	// Clamp position into bounds (work area, or whole screen while
	// interactively dragging).
	if interact {
		if x > bounds.X+bounds.Width {
			x = bounds.X + bounds.Width - w
		}
		if y > bounds.Y+bounds.Height {
			y = bounds.Y + bounds.Height - h
		}
		if x+w+2*0 < bounds.X {
			x = bounds.X
		}
		if y+h+2*0 < bounds.Y {
			y = bounds.Y
		}
	} else {
		if x > bounds.X+bounds.Width {
			x = bounds.X + bounds.Width - w
		}
		if y > bounds.Y+bounds.Height {
			y = bounds.Y + bounds.Height - h
		}
		if x < bounds.X {
			x = bounds.X
		}
		if y < bounds.Y {
			y = bounds.Y
		}
	}

	if h < barHeight {
		h = barHeight
	}
	if w < barHeight {
		w = barHeight
	}

	if respectHints {
		if sh.MinA > 0 || sh.MaxA > 0 {
			fw := float64(w - sh.BaseW)
			fh := float64(h - sh.BaseH)
			if sh.MaxA > 0 && fw/fh > sh.MaxA {
				w = sh.BaseW + int(fh*sh.MaxA)
			} else if sh.MinA > 0 && fh/fw > sh.MinA {
				h = sh.BaseH + int(fw*sh.MinA)
			}
		}

		w -= sh.BaseW
		h -= sh.BaseH

		if sh.IncW > 0 {
			w -= w % sh.IncW
		}
		if sh.IncH > 0 {
			h -= h % sh.IncH
		}

		w += sh.BaseW
		h += sh.BaseH

		if sh.MinW > 0 {
			w = common.MaxInt(w, sh.MinW)
		}
		if sh.MinH > 0 {
			h = common.MaxInt(h, sh.MinH)
		}
		if sh.MaxW > 0 {
			w = common.MinInt(w, sh.MaxW)
		}
		if sh.MaxH > 0 {
			h = common.MinInt(h, sh.MaxH)
		}
	}

	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}

	result := common.Geometry{X: x, Y: y, Width: w, Height: h}
	changed := !result.Equal(cur)
	return result, changed
}
