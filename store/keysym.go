package store

import (
	"github.com/jezek/xgb/xproto"
)

// keysymNumLock is the X11 keysym value for Num_Lock, used only to
// discover which modifier bit the server maps it to ("modifier mask is
// cleaned of Numlock" before matching against the key table).
const keysymNumLock = 0xff7f

// keycodeToKeysymFrom reads the first (group 1, level 1) keysym bound to a
// keycode out of a GetKeyboardMapping reply requested starting at
// firstKeycode.
func keycodeToKeysymFrom(mapping *xproto.GetKeyboardMappingReply, firstKeycode, keycode xproto.Keycode) xproto.Keysym {
	perKeycode := int(mapping.KeysymsPerKeycode)
	if perKeycode == 0 {
		return 0
	}
	idx := (int(keycode) - int(firstKeycode)) * perKeycode
	if idx < 0 || idx >= len(mapping.Keysyms) {
		return 0
	}
	return mapping.Keysyms[idx]
}

// KeycodeToKeysym resolves the keysym a mapping reply requested starting
// at keycode assigns to that keycode, for callers that already hold a
// reply for exactly that keycode (one-keycode GetKeyboardMapping calls).
func KeycodeToKeysym(mapping *xproto.GetKeyboardMappingReply, keycode xproto.Keycode) xproto.Keysym {
	return keycodeToKeysymFrom(mapping, keycode, keycode)
}

// KeysymToKeycode finds a keycode bound to the given keysym.
func KeysymToKeycode(c *XConn, keysym xproto.Keysym) xproto.Keycode {
	setup := xproto.Setup(c.X.Conn())
	count := int(setup.MaxKeycode-setup.MinKeycode) + 1
	mapping, err := xproto.GetKeyboardMapping(c.X.Conn(), setup.MinKeycode, byte(count)).Reply()
	if err != nil || mapping == nil {
		return 0
	}
	perKeycode := int(mapping.KeysymsPerKeycode)
	for kc := 0; kc < count; kc++ {
		for level := 0; level < perKeycode; level++ {
			idx := kc*perKeycode + level
			if idx >= len(mapping.Keysyms) {
				continue
			}
			if mapping.Keysyms[idx] == keysym {
				return xproto.Keycode(int(setup.MinKeycode) + kc)
			}
		}
	}
	return 0
}
