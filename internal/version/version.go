// Package version provides build information about the backend.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time with -ldflags "-X perplexica/internal/version.Version=...".
var (
	// Version is the release tag
	Version = "dev"
	// Commit is the git commit hash
	Commit = "unknown"
	// BuildDate is the RFC 3339 build timestamp
	BuildDate = "unknown"
)

// Info holds all the version information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// Get returns the version information, filling gaps from the embedded build info.
func Get() Info {
	info := Info{
		Version:   Version,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range bi.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.Commit == "unknown" {
					info.Commit = setting.Value
				}
			case "vcs.time":
				if info.BuildDate == "unknown" {
					info.BuildDate = setting.Value
				}
			}
		}
	}

	return info
}

// String renders the multi-line form printed by the version command.
func (i Info) String() string {
	return fmt.Sprintf("perplexica version %s\n  commit: %s\n  built: %s\n  go: %s\n  platform: %s\n",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
