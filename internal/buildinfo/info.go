// Package buildinfo holds version metadata stamped in at link time, e.g.
//
//	go build -ldflags "-X github.com/cleared-dev/ledger/internal/buildinfo.Version=v0.3.0" ./cmd/ledger
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
