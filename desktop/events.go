package desktop

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// handlerFunc is the shape every dispatch-table entry has — a table
// keyed by event type for O(1) dispatch.
type handlerFunc func(s *State, ev xgb.Event)

var dispatchTable map[int]handlerFunc

func init() {
	dispatchTable = map[int]handlerFunc{
		xproto.ButtonPress:      handleButtonPress,
		xproto.ClientMessage:    handleClientMessage,
		xproto.ConfigureRequest: handleConfigureRequest,
		xproto.ConfigureNotify:  handleConfigureNotify,
		xproto.DestroyNotify:    handleDestroyNotify,
		xproto.UnmapNotify:      handleUnmapNotify,
		xproto.EnterNotify:      handleEnterNotify,
		xproto.Expose:           handleExpose,
		xproto.FocusIn:          handleFocusIn,
		xproto.KeyPress:         handleKeyPress,
		xproto.MappingNotify:    handleMappingNotify,
		xproto.MapRequest:       handleMapRequest,
		xproto.MotionNotify:     handleMotionNotify,
		xproto.PropertyNotify:   handlePropertyNotify,
	}
}

// Dispatch routes one X event to its handler, the single entry point the
// main loop and the EnterNotify-drain both funnel through.
func Dispatch(s *State, ev xgb.Event) {
	h, ok := dispatchTable[eventType(ev)]
	if !ok {
		return
	}
	h(s, ev)
}

// eventType maps an xgb.Event to the numeric opcode the dispatch table is
// keyed by.
func eventType(ev xgb.Event) int {
	switch ev.(type) {
	case xproto.ButtonPressEvent:
		return xproto.ButtonPress
	case xproto.ClientMessageEvent:
		return xproto.ClientMessage
	case xproto.ConfigureRequestEvent:
		return xproto.ConfigureRequest
	case xproto.ConfigureNotifyEvent:
		return xproto.ConfigureNotify
	case xproto.DestroyNotifyEvent:
		return xproto.DestroyNotify
	case xproto.UnmapNotifyEvent:
		return xproto.UnmapNotify
	case xproto.EnterNotifyEvent:
		return xproto.EnterNotify
	case xproto.ExposeEvent:
		return xproto.Expose
	case xproto.FocusInEvent:
		return xproto.FocusIn
	case xproto.KeyPressEvent:
		return xproto.KeyPress
	case xproto.MappingNotifyEvent:
		return xproto.MappingNotify
	case xproto.MapRequestEvent:
		return xproto.MapRequest
	case xproto.MotionNotifyEvent:
		return xproto.MotionNotify
	case xproto.PropertyNotifyEvent:
		return xproto.PropertyNotify
	default:
		return -1
	}
}

// Run is the main event loop. A dedicated goroutine blocks on
// WaitForEvent and forwards whatever it reads into events; Run itself is
// the only goroutine that ever touches s, selecting between the next X
// event and a reloaded config pushed by reload, so state mutation stays
// on one goroutine even though a SIGHUP can arrive at any time.
func Run(s *State, reload <-chan *common.Config) {
	events := make(chan xgb.Event, 16)
	go func() {
		for {
			ev, err := s.Conn.X.Conn().WaitForEvent()
			if err != nil {
				log.WithError(err).Warn("WaitForEvent")
				continue
			}
			if ev == nil {
				continue
			}
			events <- ev
		}
	}()

	for s.Running {
		select {
		case ev := <-events:
			Dispatch(s, ev)
		case cfg := <-reload:
			*s.Cfg = *cfg
			GrabKeys(s)
			ArrangeAll(s)
			for _, m := range s.Mons.Monitors {
				DrawBar(s, m)
			}
			log.Info("config reloaded")
		}
	}
}

func handleMapRequest(s *State, xev xgb.Event) {
	ev := xev.(xproto.MapRequestEvent)
	attrs, err := xproto.GetWindowAttributes(s.Conn.X.Conn(), ev.Window).Reply()
	if err != nil {
		return
	}
	Manage(s, ev.Window, attrs)
}

func handleUnmapNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.UnmapNotifyEvent)
	c := store.ByWindow(&s.Mons, ev.Window)
	if c == nil {
		return
	}
	Unmanage(s, c, false)
}

func handleDestroyNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.DestroyNotifyEvent)
	c := store.ByWindow(&s.Mons, ev.Window)
	if c == nil {
		return
	}
	Unmanage(s, c, true)
}

func handleConfigureRequest(s *State, xev xgb.Event) {
	ev := xev.(xproto.ConfigureRequestEvent)
	c := store.ByWindow(&s.Mons, ev.Window)
	if c == nil {
		values := []uint32{}
		mask := uint16(0)
		if ev.ValueMask&xproto.ConfigWindowX != 0 {
			values = append(values, uint32(ev.X))
			mask |= xproto.ConfigWindowX
		}
		if ev.ValueMask&xproto.ConfigWindowY != 0 {
			values = append(values, uint32(ev.Y))
			mask |= xproto.ConfigWindowY
		}
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			values = append(values, uint32(ev.Width))
			mask |= xproto.ConfigWindowWidth
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			values = append(values, uint32(ev.Height))
			mask |= xproto.ConfigWindowHeight
		}
		if ev.ValueMask&xproto.ConfigWindowBorderWidth != 0 {
			values = append(values, uint32(ev.BorderWidth))
			mask |= xproto.ConfigWindowBorderWidth
		}
		if ev.ValueMask&xproto.ConfigWindowStackMode != 0 {
			values = append(values, uint32(ev.StackMode))
			mask |= xproto.ConfigWindowStackMode
		}
		err := xproto.ConfigureWindowChecked(s.Conn.X.Conn(), ev.Window, mask, values).Check()
		store.LogIfFatal(store.ReqConfigureWindow, err)
		return
	}

	if c.IsFloating || s.LayoutName(c.Mon) == "floating" {
		want := c.Geom
		if ev.ValueMask&xproto.ConfigWindowX != 0 {
			want.X = int(ev.X)
		}
		if ev.ValueMask&xproto.ConfigWindowY != 0 {
			want.Y = int(ev.Y)
		}
		if ev.ValueMask&xproto.ConfigWindowWidth != 0 {
			want.Width = int(ev.Width)
		}
		if ev.ValueMask&xproto.ConfigWindowHeight != 0 {
			want.Height = int(ev.Height)
		}
		store.ResizeClient(c, want)
	} else {
		store.SendConfigure(c)
	}
}

func handleConfigureNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.ConfigureNotifyEvent)
	if ev.Window != s.Conn.Root {
		return
	}
	// The teacher's equivalent path always computed a false "dirty" flag
	// here; this core instead genuinely recomputes geometry on root
	// ConfigureNotify, since RandR screen-change notifications are the
	// authoritative resize signal.
	if s.RefreshMonitors() {
		ArrangeAll(s)
	}
}

func handleEnterNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.EnterNotifyEvent)
	if (ev.Mode != xproto.NotifyModeNormal || ev.Detail == xproto.NotifyDetailInferior) && ev.Event != s.Conn.Root {
		return
	}
	c := store.ByWindow(&s.Mons, ev.Event)
	if c == nil {
		return
	}
	if c.Mon != s.SelMon() {
		s.Mons.Selected = c.Mon
	}
	Focus(s, c)
}

func handleFocusIn(s *State, xev xgb.Event) {
	ev := xev.(xproto.FocusInEvent)
	m := s.SelMon()
	if m == nil || m.Selected == nil {
		return
	}
	if ev.Event != m.Selected.Win {
		setFocus(s, m.Selected)
	}
}

func handleExpose(s *State, xev xgb.Event) {
	ev := xev.(xproto.ExposeEvent)
	if ev.Count == 0 {
		DrawBarForWindow(s, ev.Window)
	}
}

func handlePropertyNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.PropertyNotifyEvent)
	if ev.Window == s.Conn.Root {
		return
	}
	c := store.ByWindow(&s.Mons, ev.Window)
	if c == nil {
		return
	}
	switch ev.Atom {
	case xproto.AtomWmHints:
		if hints, err := icccm.WmHintsGet(s.Conn.X, c.Win); err == nil {
			urgent := hints.Flags&icccm.HintUrgency != 0
			if c != s.SelMon().Selected {
				SetUrgent(s, c, urgent)
				DrawBar(s, c.Mon)
			}
		}
	case xproto.AtomWmNormalHints:
		if nh, err := icccm.WmNormalHintsGet(s.Conn.X, c.Win); err == nil {
			c.Hints = store.ParseSizeHints(nh)
		}
	default:
		if ev.Atom == xproto.AtomWmName || isNetWMName(s, ev.Atom) {
			if name, err := ewmh.WmNameGet(s.Conn.X, c.Win); err == nil && name != "" {
				c.Name = name
			}
			DrawBar(s, c.Mon)
		}
	}
}

func handleMappingNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.MappingNotifyEvent)
	if ev.Request == xproto.MappingKeyboard || ev.Request == xproto.MappingModifier {
		s.Conn.NumlockMask = s.Conn.RediscoverNumlock()
		GrabKeys(s)
	}
}

func handleClientMessage(s *State, xev xgb.Event) {
	ev := xev.(xproto.ClientMessageEvent)
	c := store.ByWindow(&s.Mons, ev.Window)
	if c == nil {
		return
	}
	if ev.Type == s.Conn.Net.WMState {
		data := ev.Data.Data32
		state := xproto.Atom(data[1])
		if state == s.Conn.Net.WMFullscreen {
			action := data[0]
			want := action == 1 || (action == 2 && !c.IsFullscreen)
			SetFullscreen(s, c, want)
		}
	} else if ev.Type == s.Conn.Net.ActiveWindow {
		if c != s.SelMon().Selected && !c.IsUrgent {
			SetUrgent(s, c, true)
			DrawBar(s, c.Mon)
		}
	}
}

func isNetWMName(s *State, atom xproto.Atom) bool {
	return atom != 0 && atom == s.Conn.Net.WMName
}
