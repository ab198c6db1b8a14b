package input

import (
	"time"

	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"
)

// GrabButtons (re-)grabs the button combinations clients should forward
// to the window manager rather than the application underneath. An
// unfocused client gets every configured combo grabbed (so a click
// raises+focuses it); a focused one only gets the modified combos,
// letting plain clicks pass straight through, mirroring dwm's
// focused/unfocused grab split.
func GrabButtons(conn *store.XConn, win xproto.Window, buttons []common.Button, focused bool) {
	_ = xproto.UngrabButtonChecked(conn.X.Conn(), xproto.ButtonIndexAny, win, xproto.ModMaskAny).Check()

	if !focused {
		err := xproto.GrabButtonChecked(conn.X.Conn(), false, win,
			uint16(xproto.EventMaskButtonPress), xproto.GrabModeSync, xproto.GrabModeSync,
			0, 0, xproto.ButtonIndexAny, xproto.ModMaskAny).Check()
		store.LogIfFatal(store.ReqGrabButton, err)
		return
	}

	for _, b := range buttons {
		if b.Click != "clientwin" {
			continue
		}
		for _, mods := range modifierCombos(b.Mask, conn.NumlockMask) {
			err := xproto.GrabButtonChecked(conn.X.Conn(), false, win,
				uint16(xproto.EventMaskButtonPress), xproto.GrabModeAsync, xproto.GrabModeSync,
				0, 0, xproto.ButtonIndex(b.Button), mods).Check()
			store.LogIfFatal(store.ReqGrabButton, err)
		}
	}
}

// ResolveButtonPress finds the configured binding matching a click region
// and a ButtonPress event's (cleaned modifier, button).
func ResolveButtonPress(conn *store.XConn, buttons []common.Button, click string, ev xproto.ButtonPressEvent) (common.Button, bool) {
	mask := conn.CleanMask(ev.State)
	for _, b := range buttons {
		if b.Click != click {
			continue
		}
		if uint8(ev.Detail) == b.Button && conn.CleanMask(b.Mask) == mask {
			return b, true
		}
	}
	return common.Button{}, false
}

// motionInterval caps motion dispatch at roughly 150 Hz, the rate dwm's
// inline XMaskEvent loop achieves by draining the event queue down to the
// latest pending motion before acting on it.
const motionInterval = time.Second / 150

// TrackPointer runs a synchronous pointer-grabbed drag loop, calling
// onMotion for MotionNotify events until the button releases — the
// primitive move_mouse and resize_mouse both build on. Motion events
// arriving faster than motionInterval are dropped rather than dispatched,
// translating dwm's movemouse/resizemouse throttle to jezek/xgb's
// per-request Reply()/WaitForEvent model.
func TrackPointer(conn *store.XConn, cursor xproto.Cursor, onMotion func(rootX, rootY int16)) {
	grab, err := xproto.GrabPointer(conn.X.Conn(), false, conn.Root,
		uint16(xproto.EventMaskButtonRelease|xproto.EventMaskPointerMotion),
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, cursor, xproto.TimeCurrentTime).Reply()
	if err != nil || grab == nil || grab.Status != xproto.GrabStatusSuccess {
		return
	}
	defer xproto.UngrabPointer(conn.X.Conn(), xproto.TimeCurrentTime)

	var last time.Time
	for {
		ev, err := conn.X.Conn().WaitForEvent()
		if err != nil || ev == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.MotionNotifyEvent:
			now := time.Now()
			if !last.IsZero() && now.Sub(last) < motionInterval {
				continue
			}
			last = now
			onMotion(e.RootX, e.RootY)
		case xproto.ButtonReleaseEvent:
			return
		}
	}
}
