package desktop

import (
	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/input"
	"github.com/kxwm/tilewm/store"
	"github.com/kxwm/tilewm/ui"
)

// Renderer is the bar-drawing implementation wired in by cmd/tilewm at
// startup; kept as a package-level seam (rather than a store-held
// interface) so store stays free of a ui import.
var Renderer ui.Bar

// GrabKeys re-grabs every configured key binding on the root window.
func GrabKeys(s *State) {
	input.GrabKeys(s.Conn, s.Cfg.Keys)
}

// DrawBar repaints monitor m's bar: tag indicators, layout symbol,
// window title, status text.
func DrawBar(s *State, m *store.Monitor) {
	if Renderer == nil || !m.ShowBar {
		return
	}
	Renderer.Draw(s, m)
}

// DrawBarForWindow repaints whichever monitor owns the bar window that
// generated an Expose event.
func DrawBarForWindow(s *State, win xproto.Window) {
	if Renderer == nil {
		return
	}
	for _, m := range s.Mons.Monitors {
		if uintptr(win) == m.BarWin {
			DrawBar(s, m)
			return
		}
	}
}

// SetBarVisible maps or unmaps m's bar window to reflect ShowBar.
func SetBarVisible(s *State, m *store.Monitor) {
	if Renderer == nil {
		return
	}
	Renderer.SetVisible(s, m)
}

// ClickRegion classifies where on the screen a ButtonPress landed, the
// lookup handleButtonPress needs before it can resolve a Button binding:
// "tagbar", "layoutmenu", "statustext", "wintitle", "clientwin", "rootwin".
func ClickRegion(s *State, ev xproto.ButtonPressEvent) (string, *store.Monitor) {
	for _, m := range s.Mons.Monitors {
		if uintptr(ev.Event) == m.BarWin {
			if Renderer != nil {
				return Renderer.HitTest(s, m, int(ev.EventX)), m
			}
			return "tagbar", m
		}
	}
	if c := store.ByWindow(&s.Mons, ev.Event); c != nil {
		return "clientwin", c.Mon
	}
	if ev.Event == s.Conn.Root {
		return "rootwin", s.SelMon()
	}
	return "", s.SelMon()
}

// TagAtX reports which tag bit the tagbar region spans at pixel x, mirroring
// the equal-width split HitTest uses to classify the region in the first
// place. ok is false once x falls outside the configured tag count, the same
// boundary dwm's buttonpress loop falls through to ClkLtSymbol at.
func TagAtX(s *State, m *store.Monitor, x int) (uint32, bool) {
	n := len(s.Cfg.Tags)
	if n == 0 || m == nil {
		return 0, false
	}
	tagsWidth := m.MW / 4
	slot := tagsWidth / n
	if slot <= 0 || x < 0 || x >= tagsWidth {
		return 0, false
	}
	i := x / slot
	if i >= n {
		return 0, false
	}
	return 1 << uint(i), true
}
