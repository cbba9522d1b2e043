package buildinfo

import "fmt"

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

func String() string {
	return fmt.Sprintf("beerprep %s (commit=%s, date=%s)", Version, Commit, Date)
}
