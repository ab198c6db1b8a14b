package ui

import (
	"fmt"
	"image"

	"github.com/jezek/xgbutil/ewmh"
	"github.com/jezek/xgbutil/icccm"
	"github.com/jezek/xgbutil/xgraphics"
	"github.com/jezek/xgbutil/xwindow"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/kxwm/tilewm/common"
	"github.com/kxwm/tilewm/store"

	log "github.com/sirupsen/logrus"
)

// XGraphicsBar paints the status bar onto a dedicated dock window per
// monitor using xgbutil's xgraphics pixmap compositing, grounded on the
// teacher pack's distatus-gobar bar implementation.
type XGraphicsBar struct {
	height int
	fonts  []font.Face
	fg, bg xgraphics.BGRA

	windows map[int]*xwindow.Window // keyed by Monitor.Num
}

// NewXGraphicsBar resolves the configured fonts and colors once at
// startup; per-monitor windows are created lazily the first time a
// monitor is drawn.
func NewXGraphicsBar(cfg *common.Config, height int) *XGraphicsBar {
	b := &XGraphicsBar{
		height:  height,
		windows: map[int]*xwindow.Window{},
	}
	for _, name := range cfg.Fonts {
		b.fonts = append(b.fonts, findFont(name))
	}
	if len(b.fonts) == 0 {
		b.fonts = append(b.fonts, findFont("monospace:size=10"))
	}
	b.fg = hexToBGRA(cfg.ColorNormal.Fg)
	b.bg = hexToBGRA(cfg.ColorNormal.Bg)
	return b
}

func (b *XGraphicsBar) Height() int { return b.height }

func (b *XGraphicsBar) windowFor(s *store.State, m *store.Monitor) *xwindow.Window {
	if w, ok := b.windows[m.Num]; ok {
		return w
	}
	w, err := xwindow.Generate(s.Conn.X)
	if err != nil {
		log.WithError(err).Warn("could not generate bar window")
		return nil
	}
	w.Create(s.Conn.Root, m.MX, m.BarY, m.MW, b.height, 0)

	_ = ewmh.WmWindowTypeSet(s.Conn.X, w.Id, []string{"_NET_WM_WINDOW_TYPE_DOCK"})
	_ = ewmh.WmStateSet(s.Conn.X, w.Id, []string{"_NET_WM_STATE_STICKY"})
	_ = ewmh.WmDesktopSet(s.Conn.X, w.Id, 0xFFFFFFFF)

	strut := ewmh.WmStrut{}
	if m.TopBar {
		strut.Top = uint(b.height)
	} else {
		strut.Bottom = uint(b.height)
	}
	_ = ewmh.WmStrutSet(s.Conn.X, w.Id, &strut)

	w.Map()
	m.BarWin = uintptr(w.Id)
	b.windows[m.Num] = w
	return w
}

// Draw repaints the bar: tag indicators (bracketed if selected, with a
// small occupied-mark square for any tag holding a client, and inverted
// colors for a tag holding an urgent one), the layout symbol, the
// selected client's title (with a floating/fixed indicator square), and
// the root window's WM_NAME as right-aligned status text.
func (b *XGraphicsBar) Draw(s *store.State, m *store.Monitor) {
	w := b.windowFor(s, m)
	if w == nil {
		return
	}

	img := xgraphics.New(s.Conn.X, image.Rect(0, 0, m.MW, b.height))
	img.For(func(x, y int) xgraphics.BGRA { return b.bg })

	var occupied, urgent uint32
	for _, c := range m.Clients {
		occupied |= c.Tags
		if c.IsUrgent {
			urgent |= c.Tags
		}
	}

	face := b.fonts[0]
	baseline := fixed.I(b.height - 4)
	x := fixed.I(4)

	for i, tag := range s.Cfg.Tags {
		bit := uint32(1) << uint(i)
		label := tag
		fg, bg := b.fg, b.bg
		switch {
		case urgent&bit != 0:
			fg, bg = b.bg, b.fg
		case m.CurTags()&bit != 0:
			label = "[" + tag + "]"
		}

		start := x
		end := font.MeasureString(face, label) + x
		if bg != b.bg {
			fillRect(img, start.Round(), 0, end.Round(), b.height, bg)
		}
		img.Text(fixed.Point26_6{X: x, Y: baseline}, &fg, face, label)

		if occupied&bit != 0 {
			mark := b.height / 8
			if mark < 2 {
				mark = 2
			}
			fillRect(img, start.Round(), b.height-mark-1, start.Round()+mark, b.height-1, fg)
		}

		x = end + fixed.I(6)
	}

	symbol := s.LayoutSymbol(m)
	x = img.Text(fixed.Point26_6{X: x, Y: baseline}, &b.fg, face, symbol).X + fixed.I(10)

	status := rootStatusText(s)
	statusEnd := fixed.I(m.MW - 4)
	statusStart := statusEnd - font.MeasureString(face, status)
	if status == "" || statusStart < x {
		statusStart = statusEnd
	} else {
		img.Text(fixed.Point26_6{X: statusStart, Y: baseline}, &b.fg, face, status)
	}

	if m.Selected != nil {
		if m.Selected.IsFloating || m.Selected.IsFixed {
			side := b.height / 6
			if side < 4 {
				side = 4
			}
			top := b.height/2 - side/2
			fillRect(img, x.Round(), top, x.Round()+side, top+side, b.fg)
			x += fixed.I(side + 4)
		}
		if x < statusStart {
			img.Text(fixed.Point26_6{X: x, Y: baseline}, &b.fg, face, m.Selected.Name)
		}
	}

	img.XSurfaceSet(w.Id)
	img.XDraw()
	img.XPaint(w.Id)
	img.Destroy()
}

// rootStatusText reads the root window's WM_NAME, the way dwm treats
// whatever xsetroot -name last wrote as the bar's status text.
func rootStatusText(s *store.State) string {
	if name, err := icccm.WmNameGet(s.Conn.X, s.Conn.Root); err == nil {
		return name
	}
	return ""
}

// fillRect paints a solid rectangle directly into img's pixel buffer,
// clamped to its bounds — used for tag backgrounds, occupied marks and
// the floating/fixed title indicator, none of which xgraphics.Text draws.
func fillRect(img *xgraphics.Image, x0, y0, x1, y1 int, c xgraphics.BGRA) {
	bounds := img.Bounds()
	if x0 < bounds.Min.X {
		x0 = bounds.Min.X
	}
	if y0 < bounds.Min.Y {
		y0 = bounds.Min.Y
	}
	if x1 > bounds.Max.X {
		x1 = bounds.Max.X
	}
	if y1 > bounds.Max.Y {
		y1 = bounds.Max.Y
	}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetBGRA(x, y, c)
		}
	}
}

func (b *XGraphicsBar) SetVisible(s *store.State, m *store.Monitor) {
	w := b.windowFor(s, m)
	if w == nil {
		return
	}
	if m.ShowBar {
		w.Map()
	} else {
		w.Unmap()
	}
}

// HitTest splits the bar into a tag region, a layout-symbol region and a
// title region, approximating dwm's fixed-width click geometry with
// proportional bands since font metrics vary with the resolved face.
func (b *XGraphicsBar) HitTest(s *store.State, m *store.Monitor, x int) string {
	tagsWidth := m.MW / 4
	if x < tagsWidth {
		return "tagbar"
	}
	if x < tagsWidth+40 {
		return "layoutmenu"
	}
	return "wintitle"
}

func hexToBGRA(hex string) xgraphics.BGRA {
	if len(hex) != 7 || hex[0] != '#' {
		return xgraphics.BGRA{B: 0, G: 0, R: 0, A: 255}
	}
	var r, g, bl uint8
	_, _ = fmt.Sscanf(hex[1:3], "%02x", &r)
	_, _ = fmt.Sscanf(hex[3:5], "%02x", &g)
	_, _ = fmt.Sscanf(hex[5:7], "%02x", &bl)
	return xgraphics.BGRA{B: bl, G: g, R: r, A: 255}
}
