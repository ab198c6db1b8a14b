package store

import (
	"testing"

	"github.com/kxwm/tilewm/common"
)

func testConfig() *common.Config {
	return &common.Config{MFact: 0.55, MastersCount: 1, ShowBar: true, TopBar: true}
}

func TestUpdateGeomAddsMonitors(t *testing.T) {
	ms := &MonitorSet{}
	heads := []PhysicalHead{{X: 0, Y: 0, W: 1920, H: 1080}, {X: 1920, Y: 0, W: 1080, H: 1920}}

	changed := ms.UpdateGeom(nil, heads, testConfig())

	if !changed {
		t.Fatalf("expected UpdateGeom to report a change when adding monitors")
	}
	if len(ms.Monitors) != 2 {
		t.Fatalf("expected 2 monitors, got %d", len(ms.Monitors))
	}
	if ms.Selected != ms.Monitors[0] {
		t.Errorf("expected first monitor auto-selected when none was")
	}
	if ms.Monitors[1].MX != 1920 || ms.Monitors[1].MW != 1080 {
		t.Errorf("second monitor geometry not applied: %+v", ms.Monitors[1])
	}
}

func TestUpdateGeomIsIdempotent(t *testing.T) {
	ms := &MonitorSet{}
	heads := []PhysicalHead{{X: 0, Y: 0, W: 1920, H: 1080}}
	ms.UpdateGeom(nil, heads, testConfig())

	changed := ms.UpdateGeom(nil, heads, testConfig())
	if changed {
		t.Errorf("re-applying identical geometry should report no change")
	}
}

func TestUpdateGeomMigratesClientsOnRemoval(t *testing.T) {
	ms := &MonitorSet{}
	heads := []PhysicalHead{{X: 0, Y: 0, W: 1920, H: 1080}, {X: 1920, Y: 0, W: 1080, H: 1920}}
	ms.UpdateGeom(nil, heads, testConfig())

	head, tail := ms.Monitors[0], ms.Monitors[1]
	c := NewClient(42, tail)
	c.Tags = tail.CurTags()
	Attach(c)
	AttachStack(c)
	ms.Selected = tail

	changed := ms.UpdateGeom(nil, heads[:1], testConfig())

	if !changed {
		t.Fatalf("expected removal of a monitor to report a change")
	}
	if len(ms.Monitors) != 1 {
		t.Fatalf("expected exactly 1 surviving monitor, got %d", len(ms.Monitors))
	}
	if c.Mon != head {
		t.Errorf("expected orphaned client migrated to head monitor, got %v", c.Mon)
	}
	if c.Tags != head.CurTags() {
		t.Errorf("expected migrated client retagged onto head monitor's view")
	}
	if ms.Selected != head {
		t.Errorf("expected selection to follow the migration when the selected monitor disappears")
	}
}

func TestDirAtWrapsAround(t *testing.T) {
	ms := &MonitorSet{}
	heads := []PhysicalHead{{X: 0, Y: 0, W: 100, H: 100}, {X: 100, Y: 0, W: 100, H: 100}, {X: 200, Y: 0, W: 100, H: 100}}
	ms.UpdateGeom(nil, heads, testConfig())

	m0 := ms.Monitors[0]
	if next := ms.DirAt(m0, -1); next != ms.Monitors[2] {
		t.Errorf("DirAt(m0, -1) should wrap to the last monitor, got %v", next)
	}
	if next := ms.DirAt(m0, 1); next != ms.Monitors[1] {
		t.Errorf("DirAt(m0, 1) should move to the next monitor")
	}
}
