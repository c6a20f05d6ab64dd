// Package buildinfo holds version metadata injected at build time.
package buildinfo

// Release builds set these via -ldflags; they stay empty for local
// builds, where debug.ReadBuildInfo fills the gaps.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)
