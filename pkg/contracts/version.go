package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the stockdash release version.
	Version = "0.1.0"

	// APIVersion is the version prefix of the HTTP and WebSocket API.
	APIVersion = "v1"
)

// Set at build time via -ldflags "-X stockdash/pkg/contracts.BuildTime=...".
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo is the payload returned by the -version flag and reported in
// health responses.
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	APIVersion   string `json:"api_version"`
}

// GetVersionInfo collects release and runtime identification.
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		APIVersion:   APIVersion,
	}
}

// GetVersionString returns the short "stockdash vX.Y.Z" form.
func GetVersionString() string {
	return fmt.Sprintf("stockdash v%s", Version)
}

// GetFullVersionString returns the one-line form printed by -version.
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf("%s (built: %s, commit: %s, go: %s, os: %s/%s)",
		GetVersionString(), info.BuildTime, info.GitCommit,
		info.GoVersion, info.OS, info.Architecture)
}
