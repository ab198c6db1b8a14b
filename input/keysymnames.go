package input

import "github.com/jezek/xgb/xproto"

// keysymNames covers the practical keybinding vocabulary a config file
// needs: letters, digits, and the non-printable keys dwm's default
// config.def.h binds (Return, Tab, the function-row, arrows). X11's full
// keysymdef.h has thousands of entries; this core only resolves names
// that appear in the shipped default bindings and whatever a user's
// config.toml adds, so the table stays hand-maintained rather than
// machine-generated.
var keysymNames = map[string]xproto.Keysym{
	"space":     0x0020,
	"Return":    0xff0d,
	"Tab":       0xff09,
	"Escape":    0xff1b,
	"BackSpace": 0xff08,
	"Left":      0xff51,
	"Up":        0xff52,
	"Right":     0xff53,
	"Down":      0xff54,
	"Num_Lock":  0xff7f,
	"comma":     0x002c,
	"period":    0x002e,

	"0": 0x0030, "1": 0x0031, "2": 0x0032, "3": 0x0033, "4": 0x0034,
	"5": 0x0035, "6": 0x0036, "7": 0x0037, "8": 0x0038, "9": 0x0039,

	"a": 0x0061, "b": 0x0062, "c": 0x0063, "d": 0x0064, "e": 0x0065,
	"f": 0x0066, "g": 0x0067, "h": 0x0068, "i": 0x0069, "j": 0x006a,
	"k": 0x006b, "l": 0x006c, "m": 0x006d, "n": 0x006e, "o": 0x006f,
	"p": 0x0070, "q": 0x0071, "r": 0x0072, "s": 0x0073, "t": 0x0074,
	"u": 0x0075, "v": 0x0076, "w": 0x0077, "x": 0x0078, "y": 0x0079,
	"z": 0x007a,
}

// NameToKeysym resolves a config-file keysym name like "Return" or "t" to
// its numeric X11 keysym.
func NameToKeysym(name string) (xproto.Keysym, bool) {
	ks, ok := keysymNames[name]
	return ks, ok
}
