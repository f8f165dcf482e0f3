package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldeng/clusterdoc/internal/core"
)

func TestExecRunner_CapturesCombinedOutput(t *testing.T) {
	runner := NewRunner(10 * time.Second)

	out, err := runner.Run(context.Background(), []string{"sh", "-c", "echo out; echo err >&2"})

	require.NoError(t, err)
	assert.Contains(t, out, "out")
	assert.Contains(t, out, "err")
}

func TestExecRunner_NonZeroExit(t *testing.T) {
	runner := NewRunner(10 * time.Second)

	_, err := runner.Run(context.Background(), []string{"sh", "-c", "echo broken >&2; exit 3"})

	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatExecution))
	assert.ErrorIs(t, err, core.ErrExecution(core.CodeCommandFailed, ""))
	assert.Contains(t, err.Error(), "broken")
}

func TestExecRunner_MissingBinary(t *testing.T) {
	runner := NewRunner(10 * time.Second)

	_, err := runner.Run(context.Background(), []string{"definitely-not-a-binary-xyz"})

	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatExecution))
}

func TestExecRunner_Timeout(t *testing.T) {
	runner := NewRunner(100 * time.Millisecond)

	start := time.Now()
	_, err := runner.Run(context.Background(), []string{"sleep", "5"})

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrExecution(core.CodeCommandTimeout, ""))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestExecRunner_EmptyArgv(t *testing.T) {
	runner := NewRunner(time.Second)

	_, err := runner.Run(context.Background(), nil)

	require.Error(t, err)
	assert.True(t, core.IsCategory(err, core.ErrCatInternal))
}

func TestNewRunner_DefaultTimeout(t *testing.T) {
	r := NewRunner(0).(*execRunner)
	assert.Equal(t, DefaultTimeout, r.timeout)
}
