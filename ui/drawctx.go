// Package ui renders the status bar onto one window per monitor through
// an xgraphics pixmap surface — desktop depends only on the Bar interface
// here, never on xgraphics/font types directly.
package ui

import (
	"github.com/kxwm/tilewm/store"
)

// Bar is the interface desktop.Renderer is wired to at startup. One
// implementation (XGraphicsBar) backs it; tests can substitute a no-op.
type Bar interface {
	// Draw repaints monitor m's bar window: tags, layout symbol,
	// selected client title, status text.
	Draw(s *store.State, m *store.Monitor)

	// SetVisible maps or unmaps m's bar window.
	SetVisible(s *store.State, m *store.Monitor)

	// HitTest classifies an X coordinate within the bar into a click
	// region name ("tagbar", "layoutmenu", "statustext", "wintitle").
	HitTest(s *store.State, m *store.Monitor, x int) string

	// Height reports the bar's pixel height.
	Height() int
}
