package store

import (
	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
)

// Resize applies a new geometry to c's window, always running it through
// apply_size_hints first (ResizeClient is the path that skips it). interact
// selects whether position clamps against the whole screen (dragging) or
// just the work area. Size-increment/aspect/min-max hints are honored
// only when the config enables them, the client floats, or its monitor's
// current layout leaves clients unarranged — a tiled client otherwise
// gets exactly the geometry its layout computed, gaps and all.
func Resize(s *State, c *Client, want common.Geometry, interact bool) {
	bounds := c.Mon.WorkGeometry()
	if interact {
		bounds = c.Mon.ScreenGeometry()
	}
	respect := s.Cfg.ResizeHints || c.IsFloating || s.LayoutName(c.Mon) == "floating"
	geom, changed := ApplySizeHints(c.Geom, want, c.Hints, 0, bounds, interact, respect)
	if !changed {
		return
	}
	ResizeClient(c, geom)
}

// ResizeClient writes geom straight to the server and to c's bookkeeping,
// skipping apply_size_hints — used by Resize once hints are applied, and
// directly by manage, toggle_floating, fullscreen entry and exit, mouse
// drags and floating ConfigureRequests.
func ResizeClient(c *Client, geom common.Geometry) {
	c.Geom = geom
	conn := c.Mon.Conn
	values := []uint32{
		uint32(geom.X), uint32(geom.Y),
		uint32(geom.Width), uint32(geom.Height),
		uint32(c.BorderPx),
	}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY |
		xproto.ConfigWindowWidth | xproto.ConfigWindowHeight | xproto.ConfigWindowBorderWidth)
	err := xproto.ConfigureWindowChecked(conn.X.Conn(), c.Win, mask, values).Check()
	LogIfFatal(ReqConfigureWindow, err)
	SendConfigure(c)
}

// MoveResize is Resize plus a positional move — the name the showhide
// pass uses for clients returning to a previously computed geometry. The
// move is issued even when Resize finds nothing to change, which brings a
// client hidden by HideOffscreen back to c.Geom's position.
func MoveResize(s *State, c *Client, want common.Geometry, interact bool) {
	Resize(s, c, want, interact)
	values := []uint32{uint32(c.Geom.X), uint32(c.Geom.Y)}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	err := xproto.ConfigureWindowChecked(c.Mon.Conn.X.Conn(), c.Win, mask, values).Check()
	LogIfFatal(ReqConfigureWindow, err)
}

// SendConfigure synthesizes the ConfigureNotify every ICCCM client
// expects after a server-side move/resize it didn't request itself, and
// also the one dwm sends an unchanged tiled client just to confirm its
// geometry held.
func SendConfigure(c *Client) {
	conn := c.Mon.Conn
	ev := xproto.ConfigureNotifyEvent{
		Event:            c.Win,
		Window:           c.Win,
		AboveSibling:     0,
		X:                int16(c.Geom.X),
		Y:                int16(c.Geom.Y),
		Width:            uint16(c.Geom.Width),
		Height:           uint16(c.Geom.Height),
		BorderWidth:      uint16(c.BorderPx),
		OverrideRedirect: false,
	}
	err := xproto.SendEventChecked(conn.X.Conn(), false, c.Win, xproto.EventMaskStructureNotify, string(ev.Bytes())).Check()
	LogIfFatal(ReqOther, err)
}

// Map shows c's window, called once when a client is first managed. A
// managed client is never unmapped again by this core's own doing — tag
// switches hide it with HideOffscreen instead — so the only UnmapNotify
// that can arrive for it afterward is client-initiated.
func Map(c *Client) {
	err := xproto.MapWindowChecked(c.Mon.Conn.X.Conn(), c.Win).Check()
	LogIfFatal(ReqOther, err)
}

// HideOffscreen moves c's window out past the left edge of its monitor
// without touching c.Geom, so a later MoveResize can restore it exactly.
// This is how a client not on the current tag-set is hidden: the window
// stays mapped the whole time, matching dwm's showhide, so switching
// tags never generates the UnmapNotify that would otherwise be
// indistinguishable from the client actually closing.
func HideOffscreen(c *Client) {
	x := -2 * (c.Geom.Width + 2*c.BorderPx)
	values := []uint32{uint32(x), uint32(c.Geom.Y)}
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY)
	err := xproto.ConfigureWindowChecked(c.Mon.Conn.X.Conn(), c.Win, mask, values).Check()
	LogIfFatal(ReqConfigureWindow, err)
}

// SetBorderColor paints c's border pixel, used by focus()/set_focus() to
// distinguish the selected client.
func SetBorderColor(c *Client, pixel uint32) {
	err := xproto.ChangeWindowAttributesChecked(c.Mon.Conn.X.Conn(), c.Win,
		xproto.CwBorderPixel, []uint32{pixel}).Check()
	LogIfFatal(ReqOther, err)
}

// RaiseWindow restacks c above all of its monitor's other windows.
func RaiseWindow(c *Client) {
	err := xproto.ConfigureWindowChecked(c.Mon.Conn.X.Conn(), c.Win,
		xproto.ConfigWindowStackMode, []uint32{xproto.StackModeAbove}).Check()
	LogIfFatal(ReqConfigureWindow, err)
}
