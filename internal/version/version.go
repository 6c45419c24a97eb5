// Package version reports the build version of the regtree binaries.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/blazra/regtree/internal/version.Version=v1.2.3 \
//	                   -X github.com/blazra/regtree/internal/version.Commit=abc123"
//
// If not set, they are taken from the VCS stamp in the build info, or fall
// back to "dev" with a timestamp.
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

// ProductName prefixes the User-Agent sent by clients.
const ProductName = "regtree"

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			v, c := fromBuildInfo(info)
			if Version == "" {
				Version = v
			}
			if Commit == "" {
				Commit = c
			}
		}
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// fromBuildInfo derives a dev version and short commit from the VCS
// settings stamped by the go tool. Either result may be empty.
func fromBuildInfo(info *debug.BuildInfo) (version, commit string) {
	var revision, modified, vcsTime string
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value
		case "vcs.time":
			vcsTime = setting.Value
		}
	}

	if revision != "" {
		commit = revision
		if len(commit) > 7 {
			commit = commit[:7]
		}
		if modified == "true" {
			commit += "-dirty"
		}
	}

	// Module builds (go install ...@v1.2.3) carry a real version.
	if v := info.Main.Version; v != "" && v != "(devel)" {
		version = v
	} else if t, err := time.Parse(time.RFC3339, vcsTime); err == nil {
		version = fmt.Sprintf("dev-%s", t.Format("20060102"))
	}
	return version, commit
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Detailed returns the version plus toolchain and platform, as printed by
// "regtree version".
func Detailed() string {
	return fmt.Sprintf("%s %s, %s %s/%s", ProductName, Full(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies regtree clients to a register server.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", ProductName, Version)
}
