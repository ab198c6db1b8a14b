package store

import (
	"sort"

	"github.com/jezek/xgb/randr"

	"github.com/kxwm/tilewm/common"

	log "github.com/sirupsen/logrus"
)

// TagMask covers the full 31-tag vocabulary.
const TagMask uint32 = 1<<31 - 1

// Monitor is one output area with its own work region, tag-set, and
// client lists.
type Monitor struct {
	Num  int
	Conn *XConn

	MX, MY, MW, MH int // Screen area
	WX, WY, WW, WH int // Work area (screen minus bar strip)

	BarWin    uintptr // Opaque handle owned by the ui package
	BarY      int
	ShowBar   bool
	TopBar    bool

	GapPx        int
	MFact        float64
	MastersCount int

	TagSet          [2]uint32 // Two slots so view() can XOR-restore the previous view
	SelTagSetIdx    int       // Active selector in {0,1}
	TagLayout       [32]int   // Per-tag current layout index
	LayoutSymbol    string

	Clients []*Client // Insertion list (tiling order), head = index 0
	Stack   []*Client // Focus stack (MRU), head = index 0

	Selected *Client
}

// CurTags returns the monitor's currently visible tag-set.
func (m *Monitor) CurTags() uint32 {
	return m.TagSet[m.SelTagSetIdx]
}

func (m *Monitor) CurLayout() int {
	for tag := 0; tag < len(m.TagLayout); tag++ {
		if m.CurTags()&(1<<uint(tag)) != 0 {
			return m.TagLayout[tag]
		}
	}
	return 0
}

func (m *Monitor) SetLayoutIndex(tag int, idx int) {
	if tag >= 0 && tag < len(m.TagLayout) {
		m.TagLayout[tag] = idx
	}
}

func NewMonitor(num int, conn *XConn, geom common.Geometry, cfg *common.Config) *Monitor {
	m := &Monitor{
		Num:          num,
		Conn:         conn,
		MX:           geom.X,
		MY:           geom.Y,
		MW:           geom.Width,
		MH:           geom.Height,
		ShowBar:      cfg.ShowBar,
		TopBar:       cfg.TopBar,
		GapPx:        cfg.GapPx,
		MFact:        cfg.MFact,
		MastersCount: cfg.MastersCount,
	}
	m.TagSet[0] = 1
	m.TagSet[1] = 1
	m.UpdateWorkArea(0)
	return m
}

// UpdateWorkArea recomputes the work area from the screen area minus the
// bar strip.
func (m *Monitor) UpdateWorkArea(barHeight int) {
	m.WX, m.WY, m.WW, m.WH = m.MX, m.MY, m.MW, m.MH
	if !m.ShowBar || barHeight == 0 {
		m.BarY = -barHeight
		return
	}
	if m.TopBar {
		m.BarY = m.MY
		m.WY += barHeight
	} else {
		m.BarY = m.MY + m.MH - barHeight
	}
	m.WH -= barHeight
}

func (m *Monitor) ScreenGeometry() common.Geometry {
	return common.Geometry{X: m.MX, Y: m.MY, Width: m.MW, Height: m.MH}
}

func (m *Monitor) WorkGeometry() common.Geometry {
	return common.Geometry{X: m.WX, Y: m.WY, Width: m.WW, Height: m.WH}
}

// ---- Monitor list / reconciliation ----

// MonitorSet owns the ordered monitor list and tracks which is selected.
type MonitorSet struct {
	Monitors []*Monitor
	Selected *Monitor
}

// PhysicalHead is one RandR output rectangle, dwm's Xinerama-era
// equivalent discovered via the modern protocol.
type PhysicalHead struct {
	X, Y, W, H int
}

// QueryHeads discovers the current output geometry via RandR, falling
// back to a single monitor equal to the root window when RandR is
// unavailable.
func QueryHeads(c *XConn) []PhysicalHead {
	if err := randr.Init(c.X.Conn()); err != nil {
		log.WithError(err).Debug("randr unavailable, falling back to one monitor")
		return []PhysicalHead{{X: 0, Y: 0, W: c.ScreenW, H: c.ScreenH}}
	}

	resources, err := randr.GetScreenResources(c.X.Conn(), c.Root).Reply()
	if err != nil || resources == nil {
		return []PhysicalHead{{X: 0, Y: 0, W: c.ScreenW, H: c.ScreenH}}
	}

	heads := make([]PhysicalHead, 0, len(resources.Crtcs))
	for _, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.X.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil || info == nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 {
			continue
		}
		heads = append(heads, PhysicalHead{X: int(info.X), Y: int(info.Y), W: int(info.Width), H: int(info.Height)})
	}

	if len(heads) == 0 {
		return []PhysicalHead{{X: 0, Y: 0, W: c.ScreenW, H: c.ScreenH}}
	}

	// Unique-geometry dedup.
	seen := map[PhysicalHead]bool{}
	deduped := heads[:0]
	for _, h := range heads {
		if seen[h] {
			continue
		}
		seen[h] = true
		deduped = append(deduped, h)
	}

	sort.Slice(deduped, func(i, j int) bool { return deduped[i].X < deduped[j].X })
	return deduped
}

// UpdateGeom reconciles the monitor list against freshly queried screens,
// growing or shrinking it to match. Returns whether anything changed.
func (ms *MonitorSet) UpdateGeom(conn *XConn, heads []PhysicalHead, cfg *common.Config) bool {
	dirty := false

	if len(heads) > len(ms.Monitors) {
		for i := len(ms.Monitors); i < len(heads); i++ {
			h := heads[i]
			m := NewMonitor(i, conn, common.Geometry{X: h.X, Y: h.Y, Width: h.W, Height: h.H}, cfg)
			ms.Monitors = append(ms.Monitors, m)
			dirty = true
		}
	}
	for i := 0; i < common.MinInt(len(heads), len(ms.Monitors)); i++ {
		h := heads[i]
		m := ms.Monitors[i]
		if m.MX != h.X || m.MY != h.Y || m.MW != h.W || m.MH != h.H {
			m.MX, m.MY, m.MW, m.MH = h.X, h.Y, h.W, h.H
			m.UpdateWorkArea(barHeightOf(m))
			dirty = true
		}
	}

	for len(ms.Monitors) > len(heads) {
		tail := ms.Monitors[len(ms.Monitors)-1]
		ms.Monitors = ms.Monitors[:len(ms.Monitors)-1]

		dest := ms.NearestOverlapping(tail)
		if dest == nil {
			break
		}

		// Migrate every client, preserving stack order, to whichever
		// survivor's rectangle shares an axis of overlap with the one
		// that disappeared, rather than always dumping them on monitor 0.
		stack := append([]*Client(nil), tail.Stack...)
		for i := len(stack) - 1; i >= 0; i-- {
			MigrateClient(stack[i], tail, dest)
		}

		if ms.Selected == tail {
			ms.Selected = dest
		}
		dirty = true
	}

	if ms.Selected == nil && len(ms.Monitors) > 0 {
		ms.Selected = ms.Monitors[0]
	}

	return dirty
}

// barHeightOf is set by cmd/tilewm at startup; stored here to avoid
// a store->ui import cycle while update_geom still needs it to recompute
// work areas.
var barHeightOf = func(m *Monitor) int { return 0 }

// SetBarHeightFunc lets cmd/tilewm publish the bar's pixel height
// without store importing ui.
func SetBarHeightFunc(f func(*Monitor) int) {
	barHeightOf = f
}

// MonitorAt returns the monitor whose screen rectangle contains p, or nil
// if p falls outside every monitor — used to re-home a client dragged
// across a monitor boundary to wherever it was dropped.
func (ms *MonitorSet) MonitorAt(p common.Point) *Monitor {
	for _, m := range ms.Monitors {
		if common.IsInsideRect(p, m.ScreenGeometry()) {
			return m
		}
	}
	return nil
}

// DirAt returns the monitor reached by moving ±1 through ring order from
// m, wrapping around.
func (ms *MonitorSet) DirAt(m *Monitor, dir int) *Monitor {
	if len(ms.Monitors) == 0 {
		return nil
	}
	idx := 0
	for i, mm := range ms.Monitors {
		if mm == m {
			idx = i
			break
		}
	}
	n := len(ms.Monitors)
	idx = ((idx+dir)%n + n) % n
	return ms.Monitors[idx]
}

// NearestOverlapping picks a monitor whose rectangle shares an axis of
// overlap with m, preferring the closest one, and returns the first
// monitor when none overlaps (nil only when no other monitor exists) —
// used by UpdateGeom to choose a destination for m's clients when m
// disappears.
func (ms *MonitorSet) NearestOverlapping(m *Monitor) *Monitor {
	target := m.ScreenGeometry()
	var best *Monitor
	bestDist := -1
	for _, mm := range ms.Monitors {
		if mm == m {
			continue
		}
		g := mm.ScreenGeometry()
		if !common.OverlapsX(target, g) && !common.OverlapsY(target, g) {
			continue
		}
		dx := g.X - target.X
		dy := g.Y - target.Y
		dist := dx*dx + dy*dy
		if best == nil || dist < bestDist {
			best, bestDist = mm, dist
		}
	}
	if best == nil && len(ms.Monitors) > 0 {
		best = ms.Monitors[0]
	}
	return best
}
