// Command tilewm is a dynamic tiling window manager for X11. It owns
// substructure redirect on the root window and arranges clients through
// pluggable tiling layouts.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jezek/xgb/xproto"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/desktop"
	"github.com/kxwm/tilewm/store"
	"github.com/kxwm/tilewm/ui"

	log "github.com/sirupsen/logrus"
)

const barHeight = 20

func main() {
	args, err := common.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if args.Version {
		fmt.Println(common.Build.Summary())
		os.Exit(0)
	}

	cfg, err := common.Load(args.ConfigPath)
	if err != nil {
		log.WithError(err).Fatal("loading config")
	}

	conn, err := store.Dial("")
	if err != nil {
		log.WithError(err).Fatal("connecting to X server")
	}
	defer conn.Close()

	if err := becomeWM(conn); err != nil {
		if _, ok := err.(xproto.AccessError); ok {
			log.Fatal("could not become window manager: another WM is already running")
		}
		log.WithError(err).Fatal("could not become window manager")
	}

	s := store.NewState(conn, cfg)
	s.BarHeight = barHeight
	store.SetBarHeightFunc(func(m *store.Monitor) int {
		if m.ShowBar {
			return barHeight
		}
		return 0
	})

	desktop.Renderer = ui.NewXGraphicsBar(cfg, barHeight)

	if !s.RefreshMonitors() {
		log.Fatal("no monitors found")
	}
	for _, m := range s.Mons.Monitors {
		m.UpdateWorkArea(barHeight)
		desktop.SetBarVisible(s, m)
	}

	publishSupportedAtoms(s)
	desktop.Scan(s)
	desktop.GrabKeys(s)
	reapChildren()
	reload := watchConfigReload(args.ConfigPath)

	log.WithFields(log.Fields{"version": common.Build.Version}).Info("tilewm started")
	desktop.Run(s, reload)

	shutdown(s)
}

// becomeWM asks the X server to redirect substructure events on the root
// window to this process. An AccessError here means another window
// manager already holds that redirect.
func becomeWM(conn *store.XConn) error {
	mask := uint32(xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify |
		xproto.EventMaskButtonPress | xproto.EventMaskPointerMotion | xproto.EventMaskEnterWindow |
		xproto.EventMaskLeaveWindow | xproto.EventMaskStructureNotify | xproto.EventMaskPropertyChange)
	return xproto.ChangeWindowAttributesChecked(conn.X.Conn(), conn.Root, xproto.CwEventMask, []uint32{mask}).Check()
}

// publishSupportedAtoms sets up the _NET_SUPPORTING_WM_CHECK child window
// and advertises _NET_SUPPORTED, the minimal EWMH compliance handshake.
func publishSupportedAtoms(s *store.State) {
	win, err := xproto.NewWindowId(s.Conn.X.Conn())
	if err != nil {
		return
	}
	_ = xproto.CreateWindowChecked(s.Conn.X.Conn(), 0, win, s.Conn.Root, -1, -1, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, 0, nil).Check()
	s.WMCheckWin = uintptr(win)

	name := []byte("tilewm")
	_ = xproto.ChangePropertyChecked(s.Conn.X.Conn(), xproto.PropModeReplace, xproto.Window(win),
		s.Conn.Net.WMName, xproto.AtomString, 8, uint32(len(name)), name).Check()
	_ = xproto.ChangePropertyChecked(s.Conn.X.Conn(), xproto.PropModeReplace, xproto.Window(win),
		s.Conn.Net.WMCheck, xproto.AtomWindow, 32, 1, []byte{byte(win), byte(win >> 8), byte(win >> 16), byte(win >> 24)}).Check()

	supported := s.Conn.Net.SupportedList()
	data := make([]byte, 4*len(supported))
	for i, a := range supported {
		data[i*4] = byte(a)
		data[i*4+1] = byte(a >> 8)
		data[i*4+2] = byte(a >> 16)
		data[i*4+3] = byte(a >> 24)
	}
	_ = xproto.ChangePropertyChecked(s.Conn.X.Conn(), xproto.PropModeReplace, s.Conn.Root,
		s.Conn.Net.Supported, xproto.AtomAtom, 32, uint32(len(supported)), data).Check()
}

// reapChildren installs a SIGCHLD handler so spawn()'d processes never
// accumulate as zombies.
func reapChildren() {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, syscall.SIGCHLD)
	go func() {
		for range sigs {
			for {
				var status syscall.WaitStatus
				pid, err := syscall.Wait4(-1, &status, syscall.WNOHANG, nil)
				if pid <= 0 || err != nil {
					break
				}
			}
		}
	}()
}

// watchConfigReload re-reads the TOML config on SIGHUP and pushes the
// parsed result onto the returned channel; it never touches s itself —
// desktop.Run applies the reload on its own single goroutine, so no
// second goroutine ever mutates shared window-manager state. Grounded on
// distatus-gobar's ConfigureNotify-driven bar refresh, adapted from a
// RandR event to a signal. Only the settings Load reads from the file
// can change: existing monitors keep their own gap, mfact and
// master-count values, and the bar keeps the fonts and colors it
// resolved at startup. Colors, rules and key bindings are not read from
// the file, so a reload leaves them at their built-in defaults.
func watchConfigReload(path string) <-chan *common.Config {
	reload := make(chan *common.Config, 1)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGHUP)
	go func() {
		for range sigs {
			cfg, err := common.Load(path)
			if err != nil {
				log.WithError(err).Warn("config reload failed")
				continue
			}
			reload <- cfg
		}
	}()
	return reload
}

// shutdown runs dmenu's exec-on-quit-style cleanup: release the
// supporting-WM-check window and flush the connection.
func shutdown(s *store.State) {
	if s.WMCheckWin != 0 {
		_ = xproto.DestroyWindowChecked(s.Conn.X.Conn(), xproto.Window(s.WMCheckWin)).Check()
	}
	s.Conn.Sync()
}
