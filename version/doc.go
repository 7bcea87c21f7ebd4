// Package version reports build information for the regexprobe binary.
//
// Version, git commit, branch and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/regexprobe/version.Version=1.0.0"
//
// The versions of the regex engine modules linked into the binary are read
// from the embedded build info, since they decide what a probe reports.
package version
