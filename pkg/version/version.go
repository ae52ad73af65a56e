package version

import "fmt"

// Version, GitCommit, and BuildDate are set at build time via ldflags:
//
//	go build -ldflags "-X github.com/neewerctl/neewerctl/pkg/version.Version=v1.0.0 \
//	  -X github.com/neewerctl/neewerctl/pkg/version.GitCommit=abc1234 \
//	  -X github.com/neewerctl/neewerctl/pkg/version.BuildDate=2026-08-01"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns a single-line human-readable version string.
func Info() string {
	return fmt.Sprintf("neewerctl %s (commit %s, built %s)", Version, GitCommit, BuildDate)
}
