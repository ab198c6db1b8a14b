package desktop

import (
	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"
)

// Arrange lays out every visible client on m according to its current
// layout, then restacks. Floating-layout monitors get only the showhide
// pass: arrange is responsible for hide/show, not floating windows'
// positions.
func Arrange(s *State, m *store.Monitor) {
	Showhide(s, m.Stack)
	switch s.LayoutName(m) {
	case "tile":
		tile(s, m)
	case "monocle":
		monocle(s, m)
	default:
		// floating: no automatic geometry changes.
	}
	Restack(s, m)
}

// ArrangeAll re-tiles every monitor, the bulk operation used after
// view/tag/monitor-geometry changes affect more than one monitor at once.
func ArrangeAll(s *State) {
	for _, m := range s.Mons.Monitors {
		Arrange(s, m)
	}
}

// Showhide walks the focus stack and makes exactly the clients visible on
// the current tag-set appear on-screen, moving the rest off to the side —
// a two-pass iteration (forward to show/position, reverse to hide) that
// replaces dwm's recursive showhide with explicit, stack-safe loops.
// Clients are never unmapped here: a client stays mapped for as long as
// it's managed, visible or not, so the only UnmapNotify events the
// dispatcher ever sees are ones the client itself generated (closing or
// withdrawing), not ones this core caused by switching tags.
func Showhide(s *State, stack []*store.Client) {
	for i := 0; i < len(stack); i++ {
		c := stack[i]
		if c.IsVisible() {
			showClient(s, c)
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		c := stack[i]
		if !c.IsVisible() {
			hideClient(c)
		}
	}
}

func showClient(s *State, c *store.Client) {
	store.MoveResize(s, c, c.Geom, false)
}

// hideClient pushes c's window far enough off the left edge of its
// monitor that it can never be seen, without disturbing c.Geom — the
// stored geometry is what showClient restores to the next time c becomes
// visible, so only the on-screen position moves, never the bookkeeping.
func hideClient(c *store.Client) {
	store.HideOffscreen(c)
}

// tile implements dwm's master/stack column split, honoring MastersCount,
// MFact and GapPx.
func tile(s *State, m *store.Monitor) {
	var clients []*store.Client
	for _, c := range m.Clients {
		if !c.IsFloating && c.IsVisible() {
			clients = append(clients, c)
		}
	}
	n := len(clients)
	if n == 0 {
		m.LayoutSymbol = "[]="
		return
	}

	gap := m.GapPx
	wg := m.WorkGeometry()
	masters := common.ClampInt(m.MastersCount, 0, n)

	mw := wg.Width
	if n > masters && masters > 0 {
		mw = int(float64(wg.Width) * m.MFact)
	}

	my, ty := 0, 0
	for i, c := range clients {
		if i < masters {
			h := (wg.Height - my) / (masters - i)
			geom := common.Geometry{
				X:      wg.X + gap,
				Y:      wg.Y + my + gap,
				Width:  mw - 2*gap - 2*c.BorderPx,
				Height: h - 2*gap - 2*c.BorderPx,
			}
			if masters == n || i == masters-1 {
				geom.Height = wg.Height - my - 2*gap - 2*c.BorderPx
			}
			store.Resize(s, c, geom, false)
			my += h
		} else {
			h := (wg.Height - ty) / (n - i)
			x := wg.X
			if masters > 0 {
				x = wg.X + mw
			}
			w := wg.Width - mw
			if masters == 0 {
				w = wg.Width
			}
			geom := common.Geometry{
				X:      x + gap,
				Y:      wg.Y + ty + gap,
				Width:  w - 2*gap - 2*c.BorderPx,
				Height: h - 2*gap - 2*c.BorderPx,
			}
			if i == n-1 {
				geom.Height = wg.Height - ty - 2*gap - 2*c.BorderPx
			}
			store.Resize(s, c, geom, false)
			ty += h
		}
	}
	m.LayoutSymbol = "[]="
}

// monocle maximizes every visible tiled client to the full work area,
// stacked in Z-order with the selected one on top.
func monocle(s *State, m *store.Monitor) {
	wg := m.WorkGeometry()
	for _, c := range m.Clients {
		if c.IsFloating || !c.IsVisible() {
			continue
		}
		geom := common.Geometry{
			X:      wg.X,
			Y:      wg.Y,
			Width:  wg.Width - 2*c.BorderPx,
			Height: wg.Height - 2*c.BorderPx,
		}
		store.Resize(s, c, geom, false)
	}
	m.LayoutSymbol = "[M]"
}
