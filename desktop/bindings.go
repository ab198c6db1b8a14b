package desktop

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/input"
	"github.com/kxwm/tilewm/store"
)

func handleKeyPress(s *State, xev xgb.Event) {
	ev := xev.(xproto.KeyPressEvent)
	key, ok := input.ResolveKeyPress(s.Conn, s.Cfg.Keys, ev)
	if !ok {
		return
	}
	Execute(s, key.Func, key.Arg)
}

func handleButtonPress(s *State, xev xgb.Event) {
	ev := xev.(xproto.ButtonPressEvent)
	click, mon := ClickRegion(s, ev)
	if mon != nil && mon != s.SelMon() {
		s.Mons.Selected = mon
		Focus(s, mon.Selected)
	}
	if click == "" {
		xproto.AllowEvents(s.Conn.X.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
		return
	}
	if click == "clientwin" {
		if c := store.ByWindow(&s.Mons, ev.Event); c != nil {
			Focus(s, c)
			store.RaiseWindow(c)
		}
	}
	if btn, ok := input.ResolveButtonPress(s.Conn, s.Cfg.Buttons, click, ev); ok {
		arg := btn.Arg
		if click == "tagbar" && arg.Kind == common.ArgNone {
			if tag, ok := TagAtX(s, mon, int(ev.EventX)); ok {
				arg = common.UintArg(uint(tag))
			}
		}
		Execute(s, btn.Func, arg)
	}
	xproto.AllowEvents(s.Conn.X.Conn(), xproto.AllowReplayPointer, xproto.TimeCurrentTime)
}

// handleMotionNotify retargets the selected monitor when the pointer
// crosses into another monitor's screen area while idling on the root
// window (dwm's multi-head "motionnotify" behavior; real move/resize
// drags run through input.TrackPointer's own synchronous loop instead of
// this dispatch entry).
func handleMotionNotify(s *State, xev xgb.Event) {
	ev := xev.(xproto.MotionNotifyEvent)
	if ev.Event != s.Conn.Root {
		return
	}
	p := common.Point{X: int(ev.RootX), Y: int(ev.RootY)}
	for _, m := range s.Mons.Monitors {
		if common.IsInsideRect(p, m.ScreenGeometry()) && m != s.SelMon() {
			unfocus(s, s.SelMon().Selected, true)
			s.Mons.Selected = m
			Focus(s, m.Selected)
			return
		}
	}
}
