package store

import (
	"testing"

	"github.com/kxwm/tilewm/common"
)

func TestMatchRuleFirstMatchWins(t *testing.T) {
	cfg := &common.Config{
		Rules: []common.Rule{
			{Class: "Firefox", Tags: 1 << 1, Monitor: -1},
			{Class: "Firefox", Title: "Download", Tags: 1 << 2, Monitor: -1},
		},
	}

	r, ok := MatchRule(cfg, "Firefox", "Navigator", "Downloads")
	if !ok {
		t.Fatalf("expected a rule match")
	}
	if r.Tags != 1<<1 {
		t.Errorf("expected first matching rule to win, got tags=%d", r.Tags)
	}
}

func TestMatchRuleNoMatch(t *testing.T) {
	cfg := &common.Config{Rules: []common.Rule{{Class: "Gimp", Tags: 1, Monitor: -1}}}
	if _, ok := MatchRule(cfg, "Firefox", "Navigator", ""); ok {
		t.Errorf("expected no match for unrelated class")
	}
}

func TestApplyRuleStampsTagsAndFloating(t *testing.T) {
	m := newTestMonitor()
	c := NewClient(1, m)
	ms := &MonitorSet{Monitors: []*Monitor{m}}

	r := common.Rule{Tags: 1 << 3, IsFloating: true, Monitor: -1}
	ApplyRule(c, r, ms)

	if c.Tags != 1<<3 {
		t.Errorf("expected rule tags stamped onto client, got %d", c.Tags)
	}
	if !c.IsFloating {
		t.Errorf("expected rule's floating flag to be applied")
	}
}

func TestApplyRuleZeroTagsLeavesUnset(t *testing.T) {
	m := newTestMonitor()
	c := NewClient(1, m)
	c.Tags = 7
	ms := &MonitorSet{Monitors: []*Monitor{m}}

	ApplyRule(c, common.Rule{Tags: 0, Monitor: -1}, ms)

	if c.Tags != 7 {
		t.Errorf("expected Tags==0 rule to leave client's tags untouched, got %d", c.Tags)
	}
}

func TestApplyRuleRetargetsMonitor(t *testing.T) {
	m0 := newTestMonitor()
	m1 := newTestMonitor()
	m1.Num = 1
	c := NewClient(1, m0)
	ms := &MonitorSet{Monitors: []*Monitor{m0, m1}}

	ApplyRule(c, common.Rule{Monitor: 1}, ms)

	if c.Mon != m1 {
		t.Errorf("expected rule to retarget client onto monitor 1, got %v", c.Mon)
	}
}

func TestWindowIgnored(t *testing.T) {
	cfg := &common.Config{WindowIgnore: [][2]string{{"dmenu", ""}, {"", "picture-in-picture"}}}

	if !WindowIgnored(cfg, "dmenu", "dmenu", "") {
		t.Errorf("expected class-pattern match to be ignored")
	}
	if !WindowIgnored(cfg, "Firefox", "Firefox", "picture-in-picture") {
		t.Errorf("expected title-pattern match to be ignored")
	}
	if WindowIgnored(cfg, "Firefox", "Firefox", "Downloads") {
		t.Errorf("expected unrelated window to not be ignored")
	}
}
