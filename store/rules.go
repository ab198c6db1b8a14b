package store

import (
	"github.com/kxwm/tilewm/common"
)

// MatchRule finds the first configured rule whose class/instance/title
// patterns match, in table order, first-match-wins.
func MatchRule(cfg *common.Config, class, instance, title string) (common.Rule, bool) {
	for _, r := range cfg.Rules {
		if r.Class != "" && !common.MatchSubstring(r.Class, class) {
			continue
		}
		if r.Instance != "" && !common.MatchSubstring(r.Instance, instance) {
			continue
		}
		if r.Title != "" && !common.MatchSubstring(r.Title, title) {
			continue
		}
		return r, true
	}
	return common.Rule{}, false
}

// ApplyRule stamps a matched rule's tags/floating/monitor onto c. A rule
// with Tags == 0 leaves the monitor's current tags untouched, matching
// dwm's "tag 0 means unset" convention.
func ApplyRule(c *Client, r common.Rule, ms *MonitorSet) {
	if r.Tags != 0 {
		c.Tags = r.Tags
	}
	c.IsFloating = c.IsFloating || r.IsFloating
	if r.Monitor >= 0 {
		for _, m := range ms.Monitors {
			if m.Num == r.Monitor {
				c.Mon = m
				break
			}
		}
	}
}

// WindowIgnored reports whether class/instance/title matches one of the
// configured ignore patterns, skipping management entirely.
func WindowIgnored(cfg *common.Config, class, instance, title string) bool {
	for _, pair := range cfg.WindowIgnore {
		classPattern, namePattern := pair[0], pair[1]
		if classPattern != "" && !common.MatchSubstring(classPattern, class) && !common.MatchSubstring(classPattern, instance) {
			continue
		}
		if namePattern != "" && !common.MatchSubstring(namePattern, title) {
			continue
		}
		return true
	}
	return false
}
