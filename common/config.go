package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ArgKind tags the variant carried by an Arg, replacing the tagged union
// the original C core reinterpreted through a raw pointer.
type ArgKind uint8

const (
	ArgNone ArgKind = iota
	ArgInt
	ArgUint
	ArgFloat
	ArgPointer
)

// Arg is the enumerated sum type every command signature consumes one
// variant of.
type Arg struct {
	Kind ArgKind
	I    int
	U    uint
	F    float64
	P    interface{}
}

func IntArg(i int) Arg        { return Arg{Kind: ArgInt, I: i} }
func UintArg(u uint) Arg      { return Arg{Kind: ArgUint, U: u} }
func FloatArg(f float64) Arg  { return Arg{Kind: ArgFloat, F: f} }
func PointerArg(p any) Arg    { return Arg{Kind: ArgPointer, P: p} }

// Rule seeds a newly managed client's tags, floating flag and monitor
// from substring matches against class/instance/title.
type Rule struct {
	Class      string
	Instance   string
	Title      string
	Tags       uint32
	IsFloating bool
	Monitor    int // -1 means "don't force a monitor"
}

// Layout names one of the pluggable arrangement functions.
type Layout struct {
	Symbol string // Glyph shown in the bar's layout indicator
	Name   string // "tile", "monocle" or "floating"
}

// Key binds a modifier+keysym combination to a command.
type Key struct {
	Mod    uint16
	Keysym string // Symbolic keysym name, resolved to a keycode at grab time
	Func   string
	Arg    Arg
}

// Button binds a modifier+button combination, scoped to a click region,
// to a command.
type Button struct {
	Click  string // "tagbar", "layoutmenu", "statustext", "wintitle", "clientwin", "rootwin"
	Mask   uint16
	Button uint8
	Func   string
	Arg    Arg
}

// ColorScheme holds the three colors dwm-style color schemes use: border,
// background and foreground.
type ColorScheme struct {
	Border string
	Bg     string
	Fg     string
}

// Config is the read-only static configuration, hydrated from a TOML
// file via viper before startup.
type Config struct {
	Tags    []string
	Layouts []Layout
	Keys    []Key
	Buttons []Button
	Rules   []Rule

	ColorNormal   ColorScheme
	ColorSelected ColorScheme
	Fonts         []string

	BorderPx       int
	SnapPx         int
	ShowBar        bool
	TopBar         bool
	MFact          float64
	MastersCount   int
	GapPx          int
	ResizeHints    bool
	LockFullscreen bool

	DmenuCmd      []string
	DmenuMonArg   int // index of the DmenuCmd element holding a monitor digit; CmdSpawn runs the argv as given and does not rewrite it

	WindowIgnore [][2]string // {class-pattern, name-pattern} exemptions, teacher-style
}

// Args are the parsed CLI flags.
type Args struct {
	Version    bool
	ConfigPath string
}

func ParseArgs(argv []string) (*Args, error) {
	fs := pflag.NewFlagSet("tilewm", pflag.ContinueOnError)
	v := fs.BoolP("version", "v", false, "print version and exit")
	cfg := fs.String("config", "", "path to config.toml")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return &Args{Version: *v, ConfigPath: *cfg}, nil
}

// DefaultConfigPath resolves common.Config's backing file under
// XDG_CONFIG_HOME (or ~/.config if unset).
func DefaultConfigPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "tilewm", "config.toml")
}

// Load reads the config file (if present) over top of the built-in
// defaults, following viper's layered resolution.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	applyOverrides(v, cfg)

	return cfg, nil
}

func applyOverrides(v *viper.Viper, cfg *Config) {
	if v.IsSet("tags") {
		cfg.Tags = v.GetStringSlice("tags")
	}
	if v.IsSet("borderpx") {
		cfg.BorderPx = v.GetInt("borderpx")
	}
	if v.IsSet("snap") {
		cfg.SnapPx = v.GetInt("snap")
	}
	if v.IsSet("showbar") {
		cfg.ShowBar = v.GetBool("showbar")
	}
	if v.IsSet("topbar") {
		cfg.TopBar = v.GetBool("topbar")
	}
	if v.IsSet("mfact") {
		cfg.MFact = v.GetFloat64("mfact")
	}
	if v.IsSet("masters") {
		cfg.MastersCount = v.GetInt("masters")
	}
	if v.IsSet("gappx") {
		cfg.GapPx = v.GetInt("gappx")
	}
	if v.IsSet("resizehints") {
		cfg.ResizeHints = v.GetBool("resizehints")
	}
	if v.IsSet("lockfullscreen") {
		cfg.LockFullscreen = v.GetBool("lockfullscreen")
	}
	if v.IsSet("fonts") {
		cfg.Fonts = v.GetStringSlice("fonts")
	}
	if v.IsSet("dmenucmd") {
		cfg.DmenuCmd = v.GetStringSlice("dmenucmd")
	}
}

const modMaskMod1 = 1 << 3 // Mod1 (Alt), the default WM modifier

// defaultTagKeys binds Mod1+[1-9] to view and Mod1+Shift+[1-9] to tag, the
// dwm config.def.h convention of one key per tag.
func defaultTagKeys() []Key {
	var keys []Key
	for i := 0; i < 9; i++ {
		tag := uint(1) << uint(i)
		digit := string(rune('1' + i))
		keys = append(keys,
			Key{Mod: modMaskMod1, Keysym: digit, Func: "view", Arg: UintArg(tag)},
			Key{Mod: modMaskMod1 | shiftMask, Keysym: digit, Func: "tag", Arg: UintArg(tag)},
			Key{Mod: modMaskMod1 | controlMask, Keysym: digit, Func: "toggle_view", Arg: UintArg(tag)},
			Key{Mod: modMaskMod1 | shiftMask | controlMask, Keysym: digit, Func: "toggle_tag", Arg: UintArg(tag)},
		)
	}
	return keys
}

const (
	shiftMask   = 1 << 0
	controlMask = 1 << 2
)

// defaultKeys is dwm's config.def.h keymap translated to this core's
// command names.
func defaultKeys() []Key {
	keys := []Key{
		{Mod: modMaskMod1, Keysym: "j", Func: "focus_stack", Arg: IntArg(1)},
		{Mod: modMaskMod1, Keysym: "k", Func: "focus_stack", Arg: IntArg(-1)},
		{Mod: modMaskMod1, Keysym: "Return", Func: "zoom"},
		{Mod: modMaskMod1, Keysym: "h", Func: "set_mfact", Arg: FloatArg(-0.05)},
		{Mod: modMaskMod1, Keysym: "l", Func: "set_mfact", Arg: FloatArg(0.05)},
		{Mod: modMaskMod1, Keysym: "i", Func: "change_masters_count", Arg: IntArg(1)},
		{Mod: modMaskMod1, Keysym: "d", Func: "change_masters_count", Arg: IntArg(-1)},
		{Mod: modMaskMod1, Keysym: "t", Func: "set_layout", Arg: IntArg(0)},
		{Mod: modMaskMod1, Keysym: "m", Func: "set_layout", Arg: IntArg(1)},
		{Mod: modMaskMod1, Keysym: "f", Func: "toggle_floating"},
		{Mod: modMaskMod1, Keysym: "space", Func: "toggle_fullscreen"},
		{Mod: modMaskMod1, Keysym: "b", Func: "toggle_bar"},
		{Mod: modMaskMod1 | shiftMask, Keysym: "c", Func: "kill_selected"},
		{Mod: modMaskMod1, Keysym: "comma", Func: "focus_mon", Arg: IntArg(-1)},
		{Mod: modMaskMod1, Keysym: "period", Func: "focus_mon", Arg: IntArg(1)},
		{Mod: modMaskMod1 | shiftMask, Keysym: "comma", Func: "tag_mon", Arg: IntArg(-1)},
		{Mod: modMaskMod1 | shiftMask, Keysym: "period", Func: "tag_mon", Arg: IntArg(1)},
		{Mod: modMaskMod1 | shiftMask, Keysym: "q", Func: "quit"},
		{Mod: modMaskMod1, Keysym: "p", Func: "spawn", Arg: PointerArg([]string{"dmenu_run"})},
	}
	return append(keys, defaultTagKeys()...)
}

// defaultButtons is dwm's config.def.h button table: unmodified clicks on
// clientwin raise+focus, Mod1-held clicks drag/resize.
func defaultButtons() []Button {
	return []Button{
		{Click: "clientwin", Mask: modMaskMod1, Button: 1, Func: "move_mouse"},
		{Click: "clientwin", Mask: modMaskMod1, Button: 3, Func: "resize_mouse"},
		{Click: "tagbar", Mask: 0, Button: 1, Func: "view"},
		{Click: "tagbar", Mask: 0, Button: 3, Func: "toggle_view"},
		{Click: "tagbar", Mask: shiftMask, Button: 1, Func: "tag"},
		{Click: "tagbar", Mask: shiftMask, Button: 3, Func: "toggle_tag"},
		{Click: "layoutmenu", Mask: 0, Button: 1, Func: "set_layout", Arg: IntArg(0)},
	}
}

// Default returns the built-in configuration, analogous to dwm's
// config.def.h.
func Default() *Config {
	return &Config{
		Tags: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"},
		Layouts: []Layout{
			{Symbol: "[]=", Name: "tile"},
			{Symbol: "[M]", Name: "monocle"},
			{Symbol: "><>", Name: "floating"},
		},
		Keys:           defaultKeys(),
		Buttons:        defaultButtons(),
		ColorNormal:    ColorScheme{Border: "#444444", Bg: "#222222", Fg: "#bbbbbb"},
		ColorSelected:  ColorScheme{Border: "#005577", Bg: "#005577", Fg: "#eeeeee"},
		Fonts:          []string{"monospace:size=10"},
		BorderPx:       1,
		SnapPx:         32,
		ShowBar:        true,
		TopBar:         true,
		MFact:          0.55,
		MastersCount:   1,
		GapPx:          0,
		ResizeHints:    false,
		LockFullscreen: true,
		DmenuCmd:       []string{"dmenu_run", "-m", "0"},
		DmenuMonArg:    2,
	}
}
