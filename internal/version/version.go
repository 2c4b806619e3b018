package version

import "fmt"

var (
	// Version is the current application version
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// UserAgent identifies the controller on backend requests.
func UserAgent() string {
	return fmt.Sprintf("lightdesk/%s (%s)", Version, GitSHA)
}
