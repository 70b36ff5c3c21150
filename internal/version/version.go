package version

// Name is the service name reported by /health and prefixed to notifications.
const Name = "DemandHub"

// SnapshotSchema numbers the JSON layout of record snapshots, dumps and
// backup files. Bump it when a field is renamed or removed.
const SnapshotSchema = 1

// Set at build time via -ldflags "-X github.com/demandhub/backend/internal/version.Version=...".
var (
	Version   = "0.4.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Info is the build metadata served by the health endpoint.
type Info struct {
	Service        string `json:"service"`
	Version        string `json:"version"`
	GitCommit      string `json:"git_commit"`
	BuildTime      string `json:"build_time"`
	SnapshotSchema int    `json:"snapshot_schema"`
}

// Get returns the current build metadata.
func Get() Info {
	return Info{
		Service:        Name,
		Version:        Version,
		GitCommit:      GitCommit,
		BuildTime:      BuildTime,
		SnapshotSchema: SnapshotSchema,
	}
}

// Full is Version plus commit and build time when both were stamped.
func Full() string {
	if BuildTime == "unknown" || GitCommit == "unknown" {
		return Version
	}
	return Version + " (commit: " + GitCommit + ", built: " + BuildTime + ")"
}
