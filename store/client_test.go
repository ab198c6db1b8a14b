package store

import (
	"testing"

	"github.com/jezek/xgb/xproto"
)

func newTestMonitor() *Monitor {
	m := &Monitor{Num: 0}
	m.TagSet[0] = 1
	m.MFact = 0.5
	m.MastersCount = 1
	return m
}

func TestAttachDetachOrder(t *testing.T) {
	m := newTestMonitor()
	a := NewClient(1, m)
	b := NewClient(2, m)
	c := NewClient(3, m)

	Attach(a)
	Attach(b)
	Attach(c)

	if len(m.Clients) != 3 || m.Clients[0] != c || m.Clients[1] != b || m.Clients[2] != a {
		t.Fatalf("Attach should insert at head, got order %v", windowsOf(m.Clients))
	}

	Detach(b)
	if len(m.Clients) != 2 || m.Clients[0] != c || m.Clients[1] != a {
		t.Fatalf("Detach should remove exactly the target, got %v", windowsOf(m.Clients))
	}
}

func TestDetachStackReselectsVisible(t *testing.T) {
	m := newTestMonitor()
	a := NewClient(1, m)
	b := NewClient(2, m)
	a.Tags, b.Tags = 1, 1

	Attach(a)
	Attach(b)
	AttachStack(a)
	AttachStack(b)
	m.Selected = b

	DetachStack(b)

	if m.Selected != a {
		t.Errorf("expected fallback selection to land on remaining visible client, got %v", m.Selected)
	}
}

func TestDetachStackNoVisibleLeftClearsSelection(t *testing.T) {
	m := newTestMonitor()
	a := NewClient(1, m)
	a.Tags = 1
	Attach(a)
	AttachStack(a)
	m.Selected = a

	DetachStack(a)

	if m.Selected != nil {
		t.Errorf("expected nil selection once the only client is gone, got %v", m.Selected)
	}
}

func TestPopPromotesToHead(t *testing.T) {
	m := newTestMonitor()
	a := NewClient(1, m)
	b := NewClient(2, m)
	c := NewClient(3, m)
	Attach(a)
	Attach(b)
	Attach(c)
	// head is currently c, b, a

	Pop(a)

	if m.Clients[0] != a {
		t.Fatalf("Pop should move client to head, got %v", windowsOf(m.Clients))
	}
	if m.Selected != a {
		t.Errorf("Pop should select the promoted client")
	}
}

func TestMigrateClientRetagsToDestination(t *testing.T) {
	src := newTestMonitor()
	src.Num = 0
	src.TagSet[0] = 1

	dst := newTestMonitor()
	dst.Num = 1
	dst.TagSet[0] = 4

	c := NewClient(1, src)
	c.Tags = src.CurTags()
	Attach(c)
	AttachStack(c)

	MigrateClient(c, src, dst)

	if c.Mon != dst {
		t.Errorf("expected client's monitor to be updated to destination")
	}
	if c.Tags != dst.CurTags() {
		t.Errorf("expected client retagged onto destination's current view, got tags=%d want=%d", c.Tags, dst.CurTags())
	}
	if len(src.Clients) != 0 || len(src.Stack) != 0 {
		t.Errorf("expected client removed from source monitor's lists")
	}
	if len(dst.Clients) != 1 || len(dst.Stack) != 1 {
		t.Errorf("expected client attached to destination monitor's lists")
	}
}

func TestByWindowFindsAcrossMonitors(t *testing.T) {
	m1 := newTestMonitor()
	m2 := newTestMonitor()
	m2.Num = 1
	c1 := NewClient(10, m1)
	c2 := NewClient(20, m2)
	Attach(c1)
	Attach(c2)

	ms := MonitorSet{Monitors: []*Monitor{m1, m2}}

	if got := ByWindow(&ms, 20); got != c2 {
		t.Errorf("ByWindow(20) = %v, want client on m2", got)
	}
	if got := ByWindow(&ms, 99); got != nil {
		t.Errorf("ByWindow(99) = %v, want nil for unmanaged window", got)
	}
}

func windowsOf(clients []*Client) []xproto.Window {
	out := make([]xproto.Window, len(clients))
	for i, c := range clients {
		out[i] = c.Win
	}
	return out
}
