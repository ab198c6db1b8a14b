package store

import (
	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
)

// Client wraps one managed top-level window. Geometry is kept in
// two copies — current and "old" — so toggle_floating and the
// fullscreen/restore dance can snap back to the pre-tiling placement
// without re-querying the server.
type Client struct {
	Win  xproto.Window
	Name string

	Geom    common.Geometry
	OldGeom common.Geometry

	BorderPx    int
	OldBorderPx int

	Hints SizeHints

	Tags uint32

	IsFloating   bool
	IsFixed      bool
	IsUrgent     bool
	NeverFocus   bool
	IsFullscreen bool
	OldState     bool // floating state saved across a fullscreen toggle

	Mon *Monitor
}

// NewClient builds a Client bound to mon with zero Tags; callers set the
// tags themselves (Manage gives it mon's current tag-set).
func NewClient(win xproto.Window, mon *Monitor) *Client {
	return &Client{
		Win:      win,
		Mon:      mon,
		BorderPx: 1,
	}
}

// IsVisible reports whether c shares a tag with its monitor's current
// view — the showhide/arrange predicate.
func (c *Client) IsVisible() bool {
	if c.Mon == nil {
		return false
	}
	return c.Tags&c.Mon.CurTags() != 0
}

// ---- Client Registry ----

// Attach inserts c at the head of its monitor's tiling-order list.
func Attach(c *Client) {
	m := c.Mon
	m.Clients = append([]*Client{c}, m.Clients...)
}

// AttachStack inserts c at the head of its monitor's focus stack.
func AttachStack(c *Client) {
	m := c.Mon
	m.Stack = append([]*Client{c}, m.Stack...)
}

// Detach removes c from its monitor's tiling-order list.
func Detach(c *Client) {
	m := c.Mon
	m.Clients = removeClient(m.Clients, c)
}

// DetachStack removes c from its monitor's focus stack, and if c was the
// monitor's selected client, re-selects the next visible client in stack
// order.
func DetachStack(c *Client) {
	m := c.Mon
	m.Stack = removeClient(m.Stack, c)

	if m.Selected == c {
		for _, candidate := range m.Stack {
			if candidate.IsVisible() {
				m.Selected = candidate
				return
			}
		}
		m.Selected = nil
	}
}

func removeClient(list []*Client, c *Client) []*Client {
	out := list[:0]
	for _, cc := range list {
		if cc != c {
			out = append(out, cc)
		}
	}
	return out
}

// NextTiled returns the first visible, non-floating client at or after c
// in its monitor's tiling-order list — the cursor the tile layout walks.
func NextTiled(c *Client) *Client {
	if c == nil {
		return nil
	}
	m := c.Mon
	idx := indexOf(m.Clients, c)
	if idx < 0 {
		return nil
	}
	for _, cc := range m.Clients[idx:] {
		if !cc.IsFloating && cc.IsVisible() {
			return cc
		}
	}
	return nil
}

func indexOf(list []*Client, c *Client) int {
	for i, cc := range list {
		if cc == c {
			return i
		}
	}
	return -1
}

// Pop moves c to the head of its monitor's tiling-order list — zoom's
// promote-to-master primitive.
func Pop(c *Client) {
	Detach(c)
	Attach(c)
	c.Mon.Selected = c
}

// MigrateClient moves c from one monitor's lists to another, re-tagging
// it onto the destination's current view.
func MigrateClient(c *Client, from, to *Monitor) {
	Detach(c)
	DetachStack(c)
	c.Mon = to
	c.Tags = to.CurTags()
	Attach(c)
	AttachStack(c)
}

// ByWindow searches every monitor for the client owning win — the lookup
// every event handler performs first.
func ByWindow(ms *MonitorSet, win xproto.Window) *Client {
	for _, m := range ms.Monitors {
		for _, c := range m.Clients {
			if c.Win == win {
				return c
			}
		}
	}
	return nil
}
