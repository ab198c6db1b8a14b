package desktop

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"

	"github.com/kxwm/tilewm/input"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// Focus sets c as the selected client on its monitor and gives it input
// focus, unfocusing whatever was selected before. c == nil focuses the
// root window, the state reached when a monitor has no visible clients.
func Focus(s *State, c *store.Client) {
	sel := s.SelMon()
	if sel == nil {
		return
	}

	if sel.Selected != nil && sel.Selected != c {
		unfocus(s, sel.Selected, false)
	}

	if c != nil {
		if c.Mon != sel {
			s.Mons.Selected = c.Mon
			sel = c.Mon
		}
		if c.IsUrgent {
			SetUrgent(s, c, false)
		}
		store.DetachStack(c)
		store.AttachStack(c)
		store.RaiseWindow(c)
		setFocusColor(s, c, true)
		input.GrabButtons(s.Conn, c.Win, s.Cfg.Buttons, true)
		setFocus(s, c)
	} else {
		err := xproto.SetInputFocusChecked(s.Conn.X.Conn(), xproto.InputFocusPointerRoot, s.Conn.Root, xproto.TimeCurrentTime).Check()
		s.Conn.CheckSetFocus(err)
		_ = ewmh.ActiveWindowSet(s.Conn.X, 0)
	}

	sel.Selected = c
}

// setFocus gives c input focus with SetInputFocus unless c.NeverFocus is
// set, and also sends WM_TAKE_FOCUS when the client advertises that
// protocol (ICCCM 4.1.7).
func setFocus(s *State, c *store.Client) {
	if !c.NeverFocus {
		err := xproto.SetInputFocusChecked(s.Conn.X.Conn(), xproto.InputFocusPointerRoot, c.Win, xproto.TimeCurrentTime).Check()
		s.Conn.CheckSetFocus(err)
		_ = ewmh.ActiveWindowSet(s.Conn.X, c.Win)
	}
	if protocols, err := icccm.WmProtocolsGet(s.Conn.X, c.Win); err == nil {
		for _, name := range protocols {
			if name == "WM_TAKE_FOCUS" {
				sendProtocolMessage(s, c, s.Conn.WM.TakeFocus)
				break
			}
		}
	}
}

// sendProtocolMessage emits a WM_PROTOCOLS ClientMessage carrying atom,
// the mechanism both WM_DELETE_WINDOW (kill_selected) and WM_TAKE_FOCUS
// (setFocus) use.
func sendProtocolMessage(s *State, c *store.Client, atom xproto.Atom) {
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.Win,
		Type:   s.Conn.WM.Protocols,
		Data: xproto.ClientMessageDataUnion{
			Data32: [5]uint32{uint32(atom), uint32(xproto.TimeCurrentTime), 0, 0, 0},
		},
	}
	err := xproto.SendEventChecked(s.Conn.X.Conn(), false, c.Win, xproto.EventMaskNoEvent, string(ev.Bytes())).Check()
	log.WithFields(log.Fields{"win": c.Win}).Trace("sent protocol message")
	store.LogIfFatal(store.ReqOther, err)
}

func unfocus(s *State, c *store.Client, setfocus bool) {
	if c == nil {
		return
	}
	setFocusColor(s, c, false)
	input.GrabButtons(s.Conn, c.Win, s.Cfg.Buttons, false)
	if setfocus {
		err := xproto.SetInputFocusChecked(s.Conn.X.Conn(), xproto.InputFocusPointerRoot, s.Conn.Root, xproto.TimeCurrentTime).Check()
		s.Conn.CheckSetFocus(err)
		_ = ewmh.ActiveWindowSet(s.Conn.X, 0)
	}
}

func setFocusColor(s *State, c *store.Client, selected bool) {
	scheme := s.Cfg.ColorNormal
	if selected {
		scheme = s.Cfg.ColorSelected
	}
	pixel := s.Conn.AllocColor(scheme.Border)
	store.SetBorderColor(c, pixel)
}

// SetUrgent sets a client's IsUrgent bookkeeping, used by PropertyNotify
// and by focus() clearing urgency on focus-in. The window's WM_HINTS
// property is left unchanged.
func SetUrgent(s *State, c *store.Client, urgent bool) {
	c.IsUrgent = urgent
}

// FocusStack implements the focus_stack command: i=+1 moves focus to the
// next visible client (tiled or floating) after the selected one in
// insertion order, i=-1 to the previous one, wrapping around.
func FocusStack(s *State, dir int) {
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}

	var visible []*store.Client
	for _, c := range m.Clients {
		if c.IsVisible() {
			visible = append(visible, c)
		}
	}
	if len(visible) == 0 {
		return
	}

	idx := 0
	for i, c := range visible {
		if c == m.Selected {
			idx = i
			break
		}
	}
	n := len(visible)
	idx = ((idx+dir)%n + n) % n
	Focus(s, visible[idx])
	Restack(s, m)
}

// Restack raises the selected client when it floats, lowers every visible
// tiled client to the bottom in focus-stack order (so floating windows
// stay above tiled ones) and drains spurious EnterNotify events the
// restack generates.
func Restack(s *State, m *store.Monitor) {
	if m.Selected == nil {
		return
	}
	if m.Selected.IsFloating || s.LayoutName(m) == "floating" {
		store.RaiseWindow(m.Selected)
	}

	for _, c := range m.Stack {
		if !c.IsFloating && c.IsVisible() {
			err := xproto.ConfigureWindowChecked(s.Conn.X.Conn(), c.Win,
				xproto.ConfigWindowStackMode, []uint32{xproto.StackModeBelow}).Check()
			store.LogIfFatal(store.ReqConfigureWindow, err)
		}
	}

	s.Conn.Sync()
	drainEnterNotify(s)
}

// drainEnterNotify discards every EnterNotify already queued after a
// restack, the way dwm's XCheckMaskEvent(EnterWindowMask) loop does —
// those crossing events were generated by our own window movement, not
// real pointer motion, and would otherwise steal focus back.
// Any other queued event is handed to the dispatcher immediately so it
// isn't lost; PollForEvent never blocks, so this only drains what is
// already buffered.
func drainEnterNotify(s *State) {
	for {
		ev, err := s.Conn.X.Conn().PollForEvent()
		if err != nil || ev == nil {
			return
		}
		if _, ok := ev.(xproto.EnterNotifyEvent); ok {
			continue
		}
		Dispatch(s, ev)
	}
}
