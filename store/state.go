package store

import (
	"github.com/kxwm/tilewm/common"
)

// State is the global window-manager state: one X connection, one
// monitor set, one running flag. There is exactly one instance per
// process, threaded explicitly through the event dispatcher and command
// layer rather than held in a package-level var, so tests can construct
// an isolated instance.
type State struct {
	Conn *XConn
	Mons MonitorSet
	Cfg  *common.Config

	BarHeight int
	Running   bool

	WMCheckWin uintptr // _NET_SUPPORTING_WM_CHECK child window handle
}

// NewState wires a connection and config into a fresh, monitor-less
// state; the caller populates Mons via RefreshMonitors during startup.
func NewState(conn *XConn, cfg *common.Config) *State {
	return &State{
		Conn:    conn,
		Cfg:     cfg,
		Running: true,
	}
}

// SelMon is the monitor that owns keyboard focus and receives keybound
// commands with no explicit monitor argument.
func (s *State) SelMon() *Monitor {
	return s.Mons.Selected
}

// RefreshMonitors re-queries RandR and reconciles the monitor list,
// returning whether anything changed.
func (s *State) RefreshMonitors() bool {
	heads := QueryHeads(s.Conn)
	return s.Mons.UpdateGeom(s.Conn, heads, s.Cfg)
}

// LayoutName resolves m's per-tag layout index against the configured
// layout table.
func (s *State) LayoutName(m *Monitor) string {
	idx := m.CurLayout()
	if idx < 0 || idx >= len(s.Cfg.Layouts) {
		return "floating"
	}
	return s.Cfg.Layouts[idx].Name
}

// LayoutSymbol is LayoutName's bar-facing counterpart.
func (s *State) LayoutSymbol(m *Monitor) string {
	idx := m.CurLayout()
	if idx < 0 || idx >= len(s.Cfg.Layouts) {
		return "[?]"
	}
	return s.Cfg.Layouts[idx].Symbol
}
