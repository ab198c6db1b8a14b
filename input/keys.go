// Package input resolves configured key and button bindings against live
// X keysym/keycode state and owns the grab calls that make those
// bindings active.
package input

import (
	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// modifierCombos lists the Lock/Numlock states GrabKey must be issued
// for, since a single logical binding corresponds to up to four physical
// grabs once those lock modifiers are folded in (ICCCM 6.2.1).
func modifierCombos(base uint16, numlock uint16) []uint16 {
	return []uint16{base, base | numlock, base | xproto.ModMaskLock, base | numlock | xproto.ModMaskLock}
}

// GrabKeys ungrabs everything previously bound on root and re-grabs the
// configured table, resolving each Keysym name to the keycode(s) it
// currently maps to. Safe to call repeatedly (MappingNotify).
func GrabKeys(conn *store.XConn, keys []common.Key) {
	_ = xproto.UngrabKeyChecked(conn.X.Conn(), xproto.GrabAny, conn.Root, xproto.ModMaskAny).Check()

	for _, k := range keys {
		keysym, ok := NameToKeysym(k.Keysym)
		if !ok {
			log.WithField("keysym", k.Keysym).Warn("unknown keysym in binding")
			continue
		}
		keycode := store.KeysymToKeycode(conn, keysym)
		if keycode == 0 {
			continue
		}
		for _, mods := range modifierCombos(k.Mod, conn.NumlockMask) {
			err := xproto.GrabKeyChecked(conn.X.Conn(), true, conn.Root, mods, keycode,
				xproto.GrabModeAsync, xproto.GrabModeAsync).Check()
			store.LogIfFatal(store.ReqGrabKey, err)
		}
	}
}

// ResolveKeyPress finds the configured key binding matching a KeyPress
// event's (cleaned modifier state, keysym), if any.
func ResolveKeyPress(conn *store.XConn, keys []common.Key, ev xproto.KeyPressEvent) (common.Key, bool) {
	mask := conn.CleanMask(ev.State)
	keysym := keysymForKeycode(conn, ev.Detail)
	for _, k := range keys {
		want, ok := NameToKeysym(k.Keysym)
		if !ok {
			continue
		}
		if conn.CleanMask(k.Mod) == mask && want == keysym {
			return k, true
		}
	}
	return common.Key{}, false
}

func keysymForKeycode(conn *store.XConn, keycode xproto.Keycode) xproto.Keysym {
	mapping, err := xproto.GetKeyboardMapping(conn.X.Conn(), keycode, 1).Reply()
	if err != nil || mapping == nil || len(mapping.Keysyms) == 0 {
		return 0
	}
	return store.KeycodeToKeysym(mapping, keycode)
}
