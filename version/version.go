package version

import (
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"time"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
	GoVersion = ""
)

// EngineModules lists the module paths whose versions are reported in Info.
var EngineModules = []string{
	"github.com/dlclark/regexp2",
	"github.com/wasilibs/go-re2",
}

// Info represents version information.
type Info struct {
	Version   string            `json:"version"`
	GitCommit string            `json:"git_commit,omitempty"`
	GitBranch string            `json:"git_branch,omitempty"`
	BuildTime string            `json:"build_time"`
	GoVersion string            `json:"go_version"`
	BuildDate time.Time         `json:"build_date"`
	IsRelease bool              `json:"is_release"`
	IsDirty   bool              `json:"is_dirty"`
	Modules   map[string]string `json:"modules,omitempty"`
}

// Get returns the build information of the running binary.
func Get() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}

	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		applyBuildInfo(info, buildInfo)
	}

	if info.BuildDate.IsZero() {
		info.BuildDate = time.Now().UTC()
		info.BuildTime = info.BuildDate.Format(time.RFC3339)
	}

	return info
}

func applyBuildInfo(info *Info, bi *debug.BuildInfo) {
	if GoVersion == "" {
		info.GoVersion = bi.GoVersion
	}
	for _, setting := range bi.Settings {
		switch setting.Key {
		case "vcs.revision":
			if GitCommit == "" {
				info.GitCommit = setting.Value
				if len(info.GitCommit) > 7 {
					info.GitCommit = info.GitCommit[:7]
				}
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if BuildTime == "" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildDate = t
					info.BuildTime = setting.Value
				}
			}
		}
	}
	for _, dep := range bi.Deps {
		for _, path := range EngineModules {
			if dep.Path != path {
				continue
			}
			if info.Modules == nil {
				info.Modules = make(map[string]string)
			}
			v := dep.Version
			if dep.Replace != nil {
				v = dep.Replace.Version
			}
			info.Modules[path] = v
		}
	}
}

// Short returns the version with the commit appended when known.
func Short() string {
	info := Get()
	if info.GitCommit != "" {
		if info.IsDirty {
			return fmt.Sprintf("%s-%s-dirty", info.Version, info.GitCommit)
		}
		return fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
	}
	return info.Version
}

// Full returns a detailed multi-line description, one module per line after
// the first.
func Full() string {
	info := Get()
	parts := []string{info.Version}
	if info.GitCommit != "" {
		parts = append(parts, info.GitCommit)
	}
	if info.GitBranch != "" && info.GitBranch != "main" && info.GitBranch != "master" {
		parts = append(parts, info.GitBranch)
	}
	if info.IsDirty {
		parts = append(parts, "dirty")
	}
	var b strings.Builder
	b.WriteString(strings.Join(parts, "-"))
	if !info.BuildDate.IsZero() {
		fmt.Fprintf(&b, " (built %s", info.BuildDate.Format("2006-01-02T15:04:05Z"))
		if info.GoVersion != "" {
			fmt.Fprintf(&b, ", %s", info.GoVersion)
		}
		b.WriteString(")")
	}
	paths := make([]string, 0, len(info.Modules))
	for p := range info.Modules {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Fprintf(&b, "\n  %s %s", p, info.Modules[p])
	}
	return b.String()
}
