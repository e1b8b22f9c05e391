package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// SDKName is the product token sent in the User-Agent header.
const SDKName = "chatroutes-go"

var (
	// Set at build time using -ldflags "-X github.com/chatroutes/chatroutes-go/version.Version=...".
	Version   = "0.1.0"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version" yaml:"version"`
	GitCommit string `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	BuildTime string `json:"build_time,omitempty" yaml:"build_time,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
	IsDirty   bool   `json:"is_dirty,omitempty" yaml:"is_dirty,omitempty"`
}

// Get returns build information, falling back to VCS stamps embedded by the
// Go toolchain when ldflags were not set.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.IsDirty = s.Value == "true"
		case "vcs.time":
			if info.BuildTime == "" {
				info.BuildTime = s.Value
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// String renders a one-line description such as "0.1.0 (abc1234, go1.25.0 linux/amd64)".
func (i Info) String() string {
	parts := make([]string, 0, 3)
	if i.GitCommit != "" {
		commit := i.GitCommit
		if i.IsDirty {
			commit += "-dirty"
		}
		parts = append(parts, commit)
	}
	parts = append(parts, i.GoVersion+" "+i.Platform)
	return fmt.Sprintf("%s (%s)", i.Version, strings.Join(parts, ", "))
}

// UserAgent returns the value sent as the User-Agent header.
func UserAgent() string {
	return SDKName + "/" + Version
}
