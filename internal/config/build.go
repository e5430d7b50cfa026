package config

// Linker-injected build metadata, for example:
//
//	go build -ldflags "-X fcmsetup/internal/config.version=1.2.3 \
//	    -X fcmsetup/internal/config.commit=$(git rev-parse --short HEAD)" ./cmd/setup-fcm
var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

// NewBuildInfo constructs a BuildInfo from the linker-injected variables.
func NewBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   version,
		Commit:    commit,
		BuildTime: buildTime,
	}
}

// String renders the build metadata for the -version flag.
func (b BuildInfo) String() string {
	return b.Version + " (commit " + b.Commit + ", built " + b.BuildTime + ")"
}
