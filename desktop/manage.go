package desktop

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// Manage adopts a top-level window that just issued MapRequest (or was
// found already mapped at startup scan), building its Client, applying
// rules, and mapping it onto the selected monitor's current tag-set.
func Manage(s *State, win xproto.Window, attrs *xproto.GetWindowAttributesReply) {
	if store.ByWindow(&s.Mons, win) != nil {
		return
	}
	if attrs != nil && attrs.OverrideRedirect {
		return
	}

	class, instance, title := windowIdentity(s, win)
	if store.WindowIgnored(s.Cfg, class, instance, title) {
		log.WithFields(log.Fields{"win": win, "class": class}).Debug("window ignored by rule")
		return
	}

	mon := s.SelMon()
	if mon == nil {
		return
	}

	c := store.NewClient(win, mon)
	c.Name = title
	c.Tags = mon.CurTags()
	c.BorderPx = s.Cfg.BorderPx

	if nh, err := icccm.WmNormalHintsGet(s.Conn.X, win); err == nil {
		c.Hints = store.ParseSizeHints(nh)
		c.IsFixed = c.Hints.IsFixed()
	}

	geom, err := xproto.GetGeometry(s.Conn.X.Conn(), xproto.Drawable(win)).Reply()
	if err == nil && geom != nil {
		c.Geom = common.Geometry{X: int(geom.X), Y: int(geom.Y), Width: int(geom.Width), Height: int(geom.Height)}
	} else {
		c.Geom = mon.WorkGeometry()
	}
	c.OldGeom = c.Geom

	trans := transientFor(s, win)
	if trans != 0 {
		if parent := store.ByWindow(&s.Mons, trans); parent != nil {
			mon = parent.Mon
			c.Mon = parent.Mon
			c.Tags = parent.Tags
		}
	} else if rule, ok := store.MatchRule(s.Cfg, class, instance, title); ok {
		store.ApplyRule(c, rule, &s.Mons)
		mon = c.Mon
	}
	c.IsFloating = c.IsFloating || trans != 0 || isDialog(s, win) || c.IsFixed

	store.Attach(c)
	store.AttachStack(c)

	_ = xproto.ChangeWindowAttributesChecked(s.Conn.X.Conn(), win,
		xproto.CwBorderPixel|xproto.CwEventMask,
		[]uint32{
			s.Conn.AllocColor(s.Cfg.ColorNormal.Border),
			xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange | xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify,
		}).Check()

	setClientState(s, c, icccm.StateNormal)
	store.ResizeClient(c, c.Geom)
	store.Map(c)

	updateClientList(s)
	Arrange(s, mon)
	Focus(s, c)
}

// Scan walks the root window's existing children at startup and manages
// whichever ones are already viewable or iconic, so a WM started in the
// middle of a session picks up windows mapped before it took over
// substructure redirect. Non-transient windows are managed first so that
// a transient found in the second pass can adopt an already-known parent.
func Scan(s *State) {
	tree, err := xproto.QueryTree(s.Conn.X.Conn(), s.Conn.Root).Reply()
	if err != nil || tree == nil {
		return
	}
	wins := tree.Children

	manageable := func(win xproto.Window) *xproto.GetWindowAttributesReply {
		attrs, err := xproto.GetWindowAttributes(s.Conn.X.Conn(), win).Reply()
		if err != nil || attrs == nil || attrs.OverrideRedirect {
			return nil
		}
		if attrs.MapState == xproto.MapStateViewable {
			return attrs
		}
		if state, err := icccm.WmStateGet(s.Conn.X, win); err == nil && state.State == icccm.StateIconic {
			return attrs
		}
		return nil
	}

	for _, win := range wins {
		if transientFor(s, win) != 0 {
			continue
		}
		if attrs := manageable(win); attrs != nil {
			Manage(s, win, attrs)
		}
	}
	for _, win := range wins {
		if transientFor(s, win) == 0 {
			continue
		}
		if attrs := manageable(win); attrs != nil {
			Manage(s, win, attrs)
		}
	}
}

// Unmanage removes a client from every structure tracking it. destroyed
// distinguishes a DestroyNotify (window already gone, skip X calls) from
// a deliberate UnmapNotify-driven withdrawal.
func Unmanage(s *State, c *store.Client, destroyed bool) {
	mon := c.Mon
	store.Detach(c)
	store.DetachStack(c)

	if !destroyed {
		setClientState(s, c, icccm.StateWithdrawn)
	}

	if mon.Selected == c {
		mon.Selected = nil
	}

	updateClientList(s)
	Arrange(s, mon)

	if mon.Selected == nil {
		Focus(s, pickFallbackFocus(mon))
	}
}

func pickFallbackFocus(m *store.Monitor) *store.Client {
	for _, c := range m.Stack {
		if c.IsVisible() {
			return c
		}
	}
	return nil
}

func setClientState(s *State, c *store.Client, state uint) {
	err := icccm.WmStateSet(s.Conn.X, c.Win, &icccm.WmState{State: state})
	store.LogIfFatal(store.ReqOther, err)
}

func updateClientList(s *State) {
	var all []xproto.Window
	for _, m := range s.Mons.Monitors {
		for _, c := range m.Clients {
			all = append(all, c.Win)
		}
	}
	_ = ewmh.ClientListSet(s.Conn.X, all)
}

func windowIdentity(s *State, win xproto.Window) (class, instance, title string) {
	if wc, err := icccm.WmClassGet(s.Conn.X, win); err == nil && wc != nil {
		class, instance = wc.Class, wc.Instance
	}
	if name, err := ewmh.WmNameGet(s.Conn.X, win); err == nil && name != "" {
		title = name
	} else if name, err := icccm.WmNameGet(s.Conn.X, win); err == nil {
		title = name
	}
	return
}

func transientFor(s *State, win xproto.Window) xproto.Window {
	t, err := icccm.WmTransientForGet(s.Conn.X, win)
	if err != nil {
		return 0
	}
	return t
}

func isDialog(s *State, win xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(s.Conn.X, win)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == "_NET_WM_WINDOW_TYPE_DIALOG" {
			return true
		}
	}
	return false
}
