package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollect(t *testing.T) {
	snap := Collect()

	assert.False(t, snap.Timestamp.IsZero())

	// Collect is best-effort: either a field was populated or its probe
	// recorded an error.
	if len(snap.CollectionErrs) == 0 {
		assert.NotEmpty(t, snap.Hostname)
		assert.Positive(t, snap.CPUCount)
		assert.Positive(t, snap.MemoryTotalMB)
	}
}
