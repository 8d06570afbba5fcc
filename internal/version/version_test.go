package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "Detailist 1.0.0", String())

	GitCommit, BuildTime = "abc123", "2026-01-02T03:04:05Z"
	t.Cleanup(func() { GitCommit, BuildTime = "unknown", "unknown" })
	assert.Equal(t, "Detailist 1.0.0 (abc123, built 2026-01-02T03:04:05Z)", String())
}
