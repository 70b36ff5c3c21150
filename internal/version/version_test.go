package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, commit, built string) {
	t.Helper()
	prevCommit, prevBuilt := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = prevCommit, prevBuilt })
	GitCommit, BuildTime = commit, built
}

func TestFull(t *testing.T) {
	stamp(t, "unknown", "unknown")
	assert.Equal(t, Version, Full())

	stamp(t, "9f1c2ab", "unknown")
	assert.Equal(t, Version, Full(), "both stamps are required")

	stamp(t, "9f1c2ab", "2026-03-01")
	assert.Equal(t, Version+" (commit: 9f1c2ab, built: 2026-03-01)", Full())
}

func TestGet(t *testing.T) {
	stamp(t, "9f1c2ab", "2026-03-01")
	assert.Equal(t, Info{
		Service:        "DemandHub",
		Version:        Version,
		GitCommit:      "9f1c2ab",
		BuildTime:      "2026-03-01",
		SnapshotSchema: SnapshotSchema,
	}, Get())
}
