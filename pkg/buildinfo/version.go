// Package buildinfo holds version details stamped in at link time:
//
//	go build -ldflags "\
//	    -X github.com/matzehuels/obscura/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/obscura/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	    -X github.com/matzehuels/obscura/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/obscura
package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s (%s, built %s)\n", Version, Commit, Date)
}

// UserAgent returns the User-Agent sent to lyric providers.
func UserAgent() string {
	return fmt.Sprintf("obscura/%s (https://github.com/matzehuels/obscura)", Version)
}
