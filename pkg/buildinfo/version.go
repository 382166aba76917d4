// Package buildinfo reports which storyforge build is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/storyforge/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/storyforge/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/storyforge/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with `go install` carry no ldflags; [Get] then falls back to
// the module version and VCS stamps recorded by the toolchain.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Info describes the running build.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit,omitempty"`
	Date    string `json:"date,omitempty"`
}

// Get returns the ldflags values, completed from the embedded build info.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, Date: Date}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Date == "":
			info.Date = s.Value
		}
	}
	return info
}

// ShortCommit returns the first 12 characters of the commit, or "none".
func (i Info) ShortCommit() string {
	switch {
	case i.Commit == "":
		return "none"
	case len(i.Commit) > 12:
		return i.Commit[:12]
	}
	return i.Commit
}

// Template returns the cobra version template.
func Template() string {
	i := Get()
	date := i.Date
	if date == "" {
		date = "unknown"
	}
	return fmt.Sprintf("{{.Name}} %s (commit %s, built %s)\n", i.Version, i.ShortCommit(), date)
}
