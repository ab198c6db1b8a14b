package desktop

import (
	"os"
	"os/exec"
	"syscall"

	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/input"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// CommandFunc is the shape of every entry in the command table. arg
// carries the tagged Arg union the binding was configured with.
type CommandFunc func(s *State, arg common.Arg)

// Commands is the name -> implementation table that Key/Button bindings
// resolve Func against.
var Commands = map[string]CommandFunc{
	"view":                CmdView,
	"toggle_view":         CmdToggleView,
	"tag":                 CmdTag,
	"toggle_tag":          CmdToggleTag,
	"focus_stack":         CmdFocusStack,
	"focus_mon":           CmdFocusMon,
	"tag_mon":             CmdTagMon,
	"zoom":                CmdZoom,
	"set_mfact":           CmdSetMfact,
	"change_masters_count": CmdChangeMastersCount,
	"set_layout":          CmdSetLayout,
	"toggle_floating":     CmdToggleFloating,
	"toggle_fullscreen":   CmdToggleFullscreen,
	"toggle_bar":          CmdToggleBar,
	"set_gaps":            CmdSetGaps,
	"kill_selected":       CmdKillSelected,
	"move_mouse":          CmdMoveMouse,
	"resize_mouse":        CmdResizeMouse,
	"spawn":               CmdSpawn,
	"quit":                CmdQuit,
}

// Execute resolves and runs a command by name, the single call site the
// key/button dispatchers use.
func Execute(s *State, name string, arg common.Arg) {
	fn, ok := Commands[name]
	if !ok {
		log.WithField("func", name).Warn("unknown command")
		return
	}
	fn(s, arg)
}

// CmdView switches the selected monitor to the tag-set named by arg.U,
// keeping the previous view in the other tag-set slot. Viewing the
// tag-set that is already shown does nothing; arg.U == 0 swaps back to
// the previous view.
func CmdView(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || arg.Kind != common.ArgUint {
		return
	}
	tags := uint32(arg.U) & store.TagMask
	if tags == m.CurTags() {
		return
	}
	m.SelTagSetIdx ^= 1
	if tags != 0 {
		m.TagSet[m.SelTagSetIdx] = tags
	}
	focusAndArrange(s, m)
}

// CmdToggleView XORs tags into the current visible set, never allowing
// it to go fully empty.
func CmdToggleView(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || arg.Kind != common.ArgUint {
		return
	}
	newTags := m.TagSet[m.SelTagSetIdx] ^ (uint32(arg.U) & store.TagMask)
	if newTags == 0 {
		return
	}
	m.TagSet[m.SelTagSetIdx] = newTags
	focusAndArrange(s, m)
}

// CmdTag moves the selected client onto the given tag-set.
func CmdTag(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil || arg.Kind != common.ArgUint {
		return
	}
	tags := uint32(arg.U) & store.TagMask
	if tags == 0 {
		return
	}
	m.Selected.Tags = tags
	focusAndArrange(s, m)
}

// CmdToggleTag XORs tags into the selected client's tag membership,
// never letting it go untagged.
func CmdToggleTag(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil || arg.Kind != common.ArgUint {
		return
	}
	newTags := m.Selected.Tags ^ (uint32(arg.U) & store.TagMask)
	if newTags == 0 {
		return
	}
	m.Selected.Tags = newTags
	focusAndArrange(s, m)
}

func focusAndArrange(s *State, m *store.Monitor) {
	Focus(s, pickFallbackFocus(m))
	Arrange(s, m)
}

// CmdFocusStack implements focus_stack (arg.I = +1/-1).
func CmdFocusStack(s *State, arg common.Arg) {
	FocusStack(s, arg.I)
}

// CmdFocusMon moves input focus to an adjacent monitor without moving
// any client.
func CmdFocusMon(s *State, arg common.Arg) {
	cur := s.SelMon()
	if cur == nil {
		return
	}
	next := s.Mons.DirAt(cur, arg.I)
	if next == nil || next == cur {
		return
	}
	unfocus(s, cur.Selected, true)
	s.Mons.Selected = next
	Focus(s, next.Selected)
}

// CmdTagMon moves the selected client to an adjacent monitor, retagging
// it onto that monitor's current view.
func CmdTagMon(s *State, arg common.Arg) {
	cur := s.SelMon()
	if cur == nil || cur.Selected == nil {
		return
	}
	next := s.Mons.DirAt(cur, arg.I)
	if next == nil || next == cur {
		return
	}
	c := cur.Selected
	store.MigrateClient(c, cur, next)
	Arrange(s, cur)
	Arrange(s, next)
}

// CmdZoom promotes the selected client to master, or demotes the current
// master if it was already selected.
func CmdZoom(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil {
		return
	}
	c := m.Selected
	if c == nil || c.IsFloating {
		return
	}
	if c == store.NextTiled(firstInList(m)) && store.NextTiled(store.NextTiled(c)) != nil {
		if next := store.NextTiled(nextAfter(m, c)); next != nil {
			c = next
		}
	}
	store.Pop(c)
	Arrange(s, m)
}

func firstInList(m *store.Monitor) *store.Client {
	if len(m.Clients) == 0 {
		return nil
	}
	return m.Clients[0]
}

func nextAfter(m *store.Monitor, c *store.Client) *store.Client {
	for i, cc := range m.Clients {
		if cc == c && i+1 < len(m.Clients) {
			return m.Clients[i+1]
		}
	}
	return nil
}

// CmdSetMfact adjusts the master/stack split fraction, clamped to keep
// both columns usable. arg.F below 1.0 is a relative delta added to the
// current fraction; 1.0 or above is an absolute fraction in disguise
// (1.0 + f), letting one binding set an exact split instead of nudging.
func CmdSetMfact(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || arg.Kind != common.ArgFloat {
		return
	}
	f := arg.F
	if f < 1.0 {
		f += m.MFact
	} else {
		f -= 1.0
	}
	m.MFact = common.ClampFloat(f, 0.05, 0.95)
	Arrange(s, m)
}

// CmdChangeMastersCount adjusts how many clients occupy the master
// column.
func CmdChangeMastersCount(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || arg.Kind != common.ArgInt {
		return
	}
	m.MastersCount = common.MaxInt(m.MastersCount+arg.I, 0)
	Arrange(s, m)
}

// CmdSetLayout switches the current tag's layout index.
func CmdSetLayout(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil {
		return
	}
	idx := m.CurLayout()
	if arg.Kind == common.ArgInt {
		idx = arg.I
	}
	for tag := 0; tag < 32; tag++ {
		if m.CurTags()&(1<<uint(tag)) != 0 {
			m.SetLayoutIndex(tag, idx)
		}
	}
	Arrange(s, m)
}

// CmdToggleFloating flips the selected client between tiled and
// floating, restoring its pre-tiling geometry.
func CmdToggleFloating(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	c := m.Selected
	if c.IsFullscreen {
		return
	}
	c.IsFloating = !c.IsFloating || c.IsFixed
	if c.IsFloating {
		store.ResizeClient(c, c.OldGeom)
	} else {
		c.OldGeom = c.Geom
	}
	Arrange(s, m)
}

// SetFullscreen implements the ICCCM/EWMH fullscreen toggle driven both
// by the fullscreen command and by _NET_WM_STATE client messages. The
// geometry c had right before going fullscreen is saved in c.OldGeom and
// restored verbatim on the way out, so a floating client's position and
// size survive the round trip even though nothing re-tiles it.
func SetFullscreen(s *State, c *store.Client, fullscreen bool) {
	if fullscreen && !c.IsFullscreen {
		_ = ewmh.WmStateSet(s.Conn.X, c.Win, []string{"_NET_WM_STATE_FULLSCREEN"})
		c.IsFullscreen = true
		c.OldState = c.IsFloating
		c.OldBorderPx = c.BorderPx
		c.OldGeom = c.Geom
		c.BorderPx = 0
		c.IsFloating = true
		store.ResizeClient(c, c.Mon.ScreenGeometry())
		store.RaiseWindow(c)
	} else if !fullscreen && c.IsFullscreen {
		_ = ewmh.WmStateSet(s.Conn.X, c.Win, []string{})
		c.IsFullscreen = false
		c.IsFloating = c.OldState
		c.BorderPx = c.OldBorderPx
		store.ResizeClient(c, c.OldGeom)
		Arrange(s, c.Mon)
	}
}

// CmdToggleFullscreen is the keybinding-facing wrapper around
// SetFullscreen for the selected client.
func CmdToggleFullscreen(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	if s.Cfg.LockFullscreen && m.Selected.IsFullscreen {
		return
	}
	SetFullscreen(s, m.Selected, !m.Selected.IsFullscreen)
}

// CmdToggleBar shows/hides the bar and recomputes the work area.
func CmdToggleBar(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil {
		return
	}
	m.ShowBar = !m.ShowBar
	m.UpdateWorkArea(s.BarHeight)
	SetBarVisible(s, m)
	Arrange(s, m)
}

// CmdSetGaps adjusts the inter-window gap in pixels, never negative.
func CmdSetGaps(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || arg.Kind != common.ArgInt {
		return
	}
	m.GapPx = common.MaxInt(m.GapPx+arg.I, 0)
	Arrange(s, m)
}

// CmdKillSelected politely asks the selected client to close via
// WM_DELETE_WINDOW if it advertises support, or forcibly destroys it
// otherwise (ICCCM 4.2.8.1).
func CmdKillSelected(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	c := m.Selected
	if supportsDelete(s, c.Win) {
		sendProtocolMessage(s, c, s.Conn.WM.Delete)
		return
	}
	err := xproto.KillClientChecked(s.Conn.X.Conn(), uint32(c.Win)).Check()
	store.LogIfFatal(store.ReqOther, err)
}

func supportsDelete(s *State, win xproto.Window) bool {
	protocols, err := icccm.WmProtocolsGet(s.Conn.X, win)
	if err != nil {
		return false
	}
	for _, name := range protocols {
		if name == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}

// CmdMoveMouse implements the interactive move drag: the dragged position
// snaps to the work-area edges within SnapPx, a tiled client that's
// dragged more than SnapPx from its starting position promotes to
// floating (dwm's movemouse), and once the button releases the client
// re-homes to whichever monitor ends up under its center.
func CmdMoveMouse(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	c := m.Selected
	if c.IsFullscreen {
		return
	}
	startGeom := c.Geom
	pointer, err := xproto.QueryPointer(s.Conn.X.Conn(), s.Conn.Root).Reply()
	if err != nil || pointer == nil {
		return
	}
	startX, startY := pointer.RootX, pointer.RootY
	snap := s.Cfg.SnapPx

	input.TrackPointer(s.Conn, s.Conn.Cursors.Move, func(rootX, rootY int16) {
		nx := startGeom.X + int(rootX-startX)
		ny := startGeom.Y + int(rootY-startY)

		wg := c.Mon.WorkGeometry()
		if common.AbsInt(wg.X-nx) < snap {
			nx = wg.X
		} else if common.AbsInt((wg.X+wg.Width)-(nx+startGeom.Width)) < snap {
			nx = wg.X + wg.Width - startGeom.Width
		}
		if common.AbsInt(wg.Y-ny) < snap {
			ny = wg.Y
		} else if common.AbsInt((wg.Y+wg.Height)-(ny+startGeom.Height)) < snap {
			ny = wg.Y + wg.Height - startGeom.Height
		}

		if !c.IsFloating && s.LayoutName(c.Mon) != "floating" &&
			(common.AbsInt(nx-c.Geom.X) > snap || common.AbsInt(ny-c.Geom.Y) > snap) {
			c.IsFloating = true
		}
		if c.IsFloating || s.LayoutName(c.Mon) == "floating" {
			want := common.Geometry{X: nx, Y: ny, Width: startGeom.Width, Height: startGeom.Height}
			store.ResizeClient(c, want)
		}
	})
	retileToMonitorUnder(s, c)
}

// CmdResizeMouse implements the interactive resize drag, growing from the
// client's top-left corner. A tiled client dragged past SnapPx of size
// change promotes to floating (dwm's resizemouse); the button-release
// re-homes the client the same way CmdMoveMouse does.
func CmdResizeMouse(s *State, arg common.Arg) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	c := m.Selected
	if c.IsFullscreen {
		return
	}
	startGeom := c.Geom
	pointer, err := xproto.QueryPointer(s.Conn.X.Conn(), s.Conn.Root).Reply()
	if err != nil || pointer == nil {
		return
	}
	startX, startY := pointer.RootX, pointer.RootY
	snap := s.Cfg.SnapPx

	input.TrackPointer(s.Conn, s.Conn.Cursors.Resize, func(rootX, rootY int16) {
		nw := common.MaxInt(startGeom.Width+int(rootX-startX), 1)
		nh := common.MaxInt(startGeom.Height+int(rootY-startY), 1)

		if !c.IsFloating && s.LayoutName(c.Mon) != "floating" &&
			(common.AbsInt(nw-c.Geom.Width) > snap || common.AbsInt(nh-c.Geom.Height) > snap) {
			c.IsFloating = true
		}
		if c.IsFloating || s.LayoutName(c.Mon) == "floating" {
			want := common.Geometry{X: startGeom.X, Y: startGeom.Y, Width: nw, Height: nh}
			store.ResizeClient(c, want)
		}
	})
	retileToMonitorUnder(s, c)
}

// retileToMonitorUnder moves c to whichever monitor now contains its
// center, if that differs from the one it started the drag on, then
// arranges whatever monitor(s) changed.
func retileToMonitorUnder(s *State, c *store.Client) {
	from := c.Mon
	to := s.Mons.MonitorAt(c.Geom.Center())
	if to != nil && to != from {
		store.MigrateClient(c, from, to)
		Arrange(s, from)
		Arrange(s, to)
		return
	}
	Arrange(s, from)
}

// CmdSpawn execs the command carried in arg.P ([]string), detached from
// the window manager's own process group.
func CmdSpawn(s *State, arg common.Arg) {
	argv, ok := arg.P.([]string)
	if !ok || len(argv) == 0 {
		return
	}
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		log.WithError(err).WithField("cmd", argv[0]).Warn("spawn failed")
		return
	}
	go func() { _ = cmd.Wait() }()
}

// CmdQuit stops the event loop.
func CmdQuit(s *State, arg common.Arg) {
	s.Running = false
}
