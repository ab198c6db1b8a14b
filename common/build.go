package common

import "fmt"

// BuildInfo carries version metadata injected at link time via -ldflags,
// exposed at startup through Summary.
type BuildInfo struct {
	Name    string
	Version string
	Commit  string
}

func (b BuildInfo) Summary() string {
	return fmt.Sprintf("%s %s (%s)", b.Name, b.Version, b.Commit)
}

var Build = BuildInfo{
	Name:    "tilewm",
	Version: "dev",
	Commit:  "none",
}
