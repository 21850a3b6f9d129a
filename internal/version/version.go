// Package version reports which build of cssvar is running.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version is set at build time via ldflags, e.g. -X bennypowers.dev/cssvar/internal/version.Version=v0.1.0
	Version = "dev"
	// Commit is set at build time via ldflags; when empty it is read from the VCS stamp
	Commit = ""
)

// readBuildInfo is swapped in tests
var readBuildInfo = debug.ReadBuildInfo

// Stamp is what the toolchain recorded about the build
type Stamp struct {
	Module   string
	Revision string
	Time     string
	Modified bool
}

// ReadStamp returns the module version and VCS settings of the running binary
func ReadStamp() Stamp {
	var s Stamp
	info, ok := readBuildInfo()
	if !ok {
		return s
	}
	s.Module = info.Main.Version
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			s.Revision = setting.Value
		case "vcs.time":
			s.Time = setting.Value
		case "vcs.modified":
			s.Modified = setting.Value == "true"
		}
	}
	return s
}

// GetVersion returns the version string for the application
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	stamp := ReadStamp()
	if stamp.Module != "" && stamp.Module != "(devel)" {
		return stamp.Module
	}
	if stamp.Revision != "" {
		v := "dev-" + short(stamp.Revision)
		if stamp.Modified {
			v += "-dirty"
		}
		return v
	}
	return "dev"
}

// GetFullVersion returns the version with the commit it was built from
func GetFullVersion() string {
	v := GetVersion()
	commit := Commit
	if commit == "" {
		commit = ReadStamp().Revision
	}
	if commit == "" {
		return v
	}
	return fmt.Sprintf("%s (commit: %s)", v, short(commit))
}

func short(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
