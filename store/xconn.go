package store

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"

	log "github.com/sirupsen/logrus"
)

// XConn is the typed facade over the display handle. Every protocol
// request the core issues funnels through here so that the benign-error
// policy and the server-grab discipline live in one place. Unlike Xlib,
// jezek/xgb reports errors per request via Reply()/Check() rather than a
// process-wide handler, so the "install dummy handler, do risky op,
// restore handler" pattern collapses to: take the grab, issue the risky
// requests, inspect their (ignorable) errors, release the grab.
type XConn struct {
	X           *xgbutil.XUtil
	Root        xproto.Window
	ScreenW     int
	ScreenH     int
	WM          WMAtoms
	Net         NetAtoms
	Cursors     Cursors
	NumlockMask uint16

	mu         sync.Mutex
	grabDepth  int
	colorCache map[string]uint32
}

// Cursors holds the three cursor shapes the core ever grabs the pointer
// with.
type Cursors struct {
	Normal xproto.Cursor
	Resize xproto.Cursor
	Move   xproto.Cursor
}

// Dial opens the display connection and fills in the pieces every
// handler needs. Failure here is startup-fatal.
func Dial(display string) (*XConn, error) {
	X, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	root := X.RootWin()
	geom, err := xproto.GetGeometry(X.Conn(), xproto.Drawable(root)).Reply()
	if err != nil || geom == nil {
		return nil, fmt.Errorf("query root geometry: %w", err)
	}

	c := &XConn{
		X:       X,
		Root:    root,
		ScreenW: int(geom.Width),
		ScreenH: int(geom.Height),
		WM:      InternWMAtoms(X),
		Net:     InternNetAtoms(X),
	}

	c.Cursors = c.createCursors()
	c.NumlockMask = c.discoverNumlock()

	return c, nil
}

func (c *XConn) Close() {
	c.X.Conn().Close()
}

func (c *XConn) Sync() {
	c.X.Conn().Sync()
}

// createCursors loads the three standard cursor glyphs used by pointer
// grabs (normal/resize/move).
func (c *XConn) createCursors() Cursors {
	const (
		xcLeftPtr  = 68
		xcSizing   = 120
		xcFleur    = 52
	)
	font, err := xproto.NewFontId(c.X.Conn())
	if err == nil {
		_ = xproto.OpenFontChecked(c.X.Conn(), font, uint16(len("cursor")), "cursor").Check()
	}
	mk := func(shape uint16) xproto.Cursor {
		cur, err := xproto.NewCursorId(c.X.Conn())
		if err != nil {
			return 0
		}
		_ = xproto.CreateGlyphCursorChecked(c.X.Conn(), cur, font, font, shape, shape+1,
			0, 0, 0, 0xffff, 0xffff, 0xffff).Check()
		return cur
	}
	return Cursors{
		Normal: mk(xcLeftPtr),
		Resize: mk(xcSizing),
		Move:   mk(xcFleur),
	}
}

// discoverNumlock finds which modifier bit the server currently maps
// Num_Lock to, so ButtonPress/KeyPress handlers can clean it from the
// reported modifier state.
func (c *XConn) discoverNumlock() uint16 {
	mapping, err := xproto.GetModifierMapping(c.X.Conn()).Reply()
	if err != nil || mapping == nil {
		return 0
	}
	setup := xproto.Setup(c.X.Conn())
	count := int(setup.MaxKeycode-setup.MinKeycode) + 1
	keysyms, err := xproto.GetKeyboardMapping(c.X.Conn(), setup.MinKeycode, byte(count)).Reply()
	if err != nil || keysyms == nil {
		return 0
	}
	perMod := int(mapping.KeycodesPerModifier)
	for i := 0; i < 8; i++ {
		for j := 0; j < perMod; j++ {
			kc := mapping.Keycodes[i*perMod+j]
			if kc == 0 {
				continue
			}
			if keycodeToKeysymFrom(keysyms, setup.MinKeycode, kc) == keysymNumLock {
				return 1 << uint(i)
			}
		}
	}
	return 0
}

// RediscoverNumlock re-scans the keyboard mapping, called after
// MappingNotify reports the modifier map changed.
func (c *XConn) RediscoverNumlock() uint16 {
	return c.discoverNumlock()
}

// CleanMask strips Numlock and Lock (CapsLock) from a reported modifier
// state before comparing against the key/button tables.
func (c *XConn) CleanMask(mask uint16) uint16 {
	const lockMask = xproto.ModMaskLock
	all := uint16(xproto.ModMaskShift | xproto.ModMaskControl | xproto.ModMask1 |
		xproto.ModMask2 | xproto.ModMask3 | xproto.ModMask4 | xproto.ModMask5)
	return mask &^ (c.NumlockMask | lockMask) & all
}

// Grab begins a server-grabbed critical section, mirroring the
// guard-scoped resource the design notes call for in place of raw
// dummy-handler bookkeeping; no error handler is swapped in, errors stay
// per request. Release must be called exactly once, typically via defer.
func (c *XConn) Grab() func() {
	c.mu.Lock()
	xproto.GrabServer(c.X.Conn())
	c.grabDepth++
	c.mu.Unlock()

	released := false
	return func() {
		if released {
			return
		}
		released = true
		c.mu.Lock()
		c.grabDepth--
		c.mu.Unlock()
		xproto.UngrabServer(c.X.Conn())
	}
}

// Request names the handful of protocol requests whose errors the
// benign-error policy treats specially.
type Request string

const (
	ReqOther          Request = ""
	ReqSetInputFocus  Request = "SetInputFocus"
	ReqConfigureWindow Request = "ConfigureWindow"
	ReqDraw           Request = "Draw"
	ReqGrabButton     Request = "GrabButton"
	ReqGrabKey        Request = "GrabKey"
)

// IsBenign implements the error taxonomy: certain (request, error)
// combinations are legitimate races against asynchronous client
// destruction and must never be treated as fatal.
func IsBenign(req Request, err error) bool {
	if err == nil {
		return true
	}
	switch err.(type) {
	case xproto.WindowError:
		return true
	case xproto.MatchError:
		return req == ReqSetInputFocus || req == ReqConfigureWindow
	case xproto.DrawableError:
		return req == ReqDraw
	case xproto.AccessError:
		return req == ReqGrabButton || req == ReqGrabKey
	}
	return false
}

// CheckSetFocus logs a SetInputFocus error through the benign-error
// policy; split out from LogIfFatal only so call sites read naturally.
func (c *XConn) CheckSetFocus(err error) {
	LogIfFatal(ReqSetInputFocus, err)
}

// AllocColor resolves a "#rrggbb" string to a pixel value on the default
// colormap, caching per-string since border colors repeat constantly
// (every focus change) and colormap allocation is a round trip.
func (c *XConn) AllocColor(hex string) uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.colorCache == nil {
		c.colorCache = map[string]uint32{}
	}
	if pixel, ok := c.colorCache[hex]; ok {
		return pixel
	}

	r, g, b := parseHexColor(hex)
	setup := xproto.Setup(c.X.Conn())
	screen := setup.DefaultScreen(c.X.Conn())
	reply, err := xproto.AllocColor(c.X.Conn(), screen.DefaultColormap, r, g, b).Reply()
	pixel := uint32(0)
	if err == nil && reply != nil {
		pixel = reply.Pixel
	}
	c.colorCache[hex] = pixel
	return pixel
}

func parseHexColor(hex string) (r, g, b uint16) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}
	v := func(c byte) uint16 {
		switch {
		case c >= '0' && c <= '9':
			return uint16(c - '0')
		case c >= 'a' && c <= 'f':
			return uint16(c-'a') + 10
		case c >= 'A' && c <= 'F':
			return uint16(c-'A') + 10
		}
		return 0
	}
	byte2 := func(hi, lo byte) uint16 {
		n := v(hi)*16 + v(lo)
		return n<<8 | n
	}
	r = byte2(hex[1], hex[2])
	g = byte2(hex[3], hex[4])
	b = byte2(hex[5], hex[6])
	return
}

// LogIfFatal forwards anything not covered by IsBenign to the logger at
// Warn level; the design keeps "fatal" errors from actually terminating
// the process (we are not X's default error handler), but a surprising
// error is still worth surfacing.
func LogIfFatal(req Request, err error) {
	if IsBenign(req, err) {
		return
	}
	log.WithFields(log.Fields{"request": string(req)}).Warn("Unhandled X error: ", err)
}
