// Package buildinfo holds version metadata reported by `expense --version`.
package buildinfo

// Set with -ldflags "-X github.com/expense-cli/expense/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
