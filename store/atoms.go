package store

import (
	"github.com/jezek/xgb/xproto"
	"github.com/jezek/xgbutil"
)

// WMAtoms interns the ICCCM WM_PROTOCOLS family.
type WMAtoms struct {
	Protocols  xproto.Atom
	Delete     xproto.Atom
	State      xproto.Atom
	TakeFocus  xproto.Atom
}

// NetAtoms interns the EWMH _NET_* atoms this core sets or honors.
type NetAtoms struct {
	Supported        xproto.Atom
	WMName           xproto.Atom
	WMState          xproto.Atom
	WMCheck          xproto.Atom
	WMFullscreen     xproto.Atom
	ActiveWindow     xproto.Atom
	WMWindowType     xproto.Atom
	WMWindowTypeDialog xproto.Atom
	ClientList       xproto.Atom
}

func internAtom(X *xgbutil.XUtil, name string) xproto.Atom {
	reply, err := xproto.InternAtom(X.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil || reply == nil {
		return xproto.AtomNone
	}
	return reply.Atom
}

func InternWMAtoms(X *xgbutil.XUtil) WMAtoms {
	return WMAtoms{
		Protocols: internAtom(X, "WM_PROTOCOLS"),
		Delete:    internAtom(X, "WM_DELETE_WINDOW"),
		State:     internAtom(X, "WM_STATE"),
		TakeFocus: internAtom(X, "WM_TAKE_FOCUS"),
	}
}

func InternNetAtoms(X *xgbutil.XUtil) NetAtoms {
	return NetAtoms{
		Supported:          internAtom(X, "_NET_SUPPORTED"),
		WMName:             internAtom(X, "_NET_WM_NAME"),
		WMState:            internAtom(X, "_NET_WM_STATE"),
		WMCheck:            internAtom(X, "_NET_SUPPORTING_WM_CHECK"),
		WMFullscreen:       internAtom(X, "_NET_WM_STATE_FULLSCREEN"),
		ActiveWindow:       internAtom(X, "_NET_ACTIVE_WINDOW"),
		WMWindowType:       internAtom(X, "_NET_WM_WINDOW_TYPE"),
		WMWindowTypeDialog: internAtom(X, "_NET_WM_WINDOW_TYPE_DIALOG"),
		ClientList:         internAtom(X, "_NET_CLIENT_LIST"),
	}
}

// SupportedList lists the _NET_SUPPORTED subset this core implements.
func (n NetAtoms) SupportedList() []xproto.Atom {
	return []xproto.Atom{
		n.Supported, n.WMName, n.WMState, n.WMCheck, n.WMFullscreen,
		n.ActiveWindow, n.WMWindowType, n.WMWindowTypeDialog, n.ClientList,
	}
}
