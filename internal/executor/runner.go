package executor

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/fieldeng/clusterdoc/internal/core"
)

// DefaultTimeout bounds a single remote command. A hung remote session
// otherwise hangs the whole batch.
const DefaultTimeout = 5 * time.Minute

// Runner executes a fully-built command line and returns its combined
// output. This is the only component of the execution core that performs
// I/O.
type Runner interface {
	Run(ctx context.Context, argv []string) (string, error)
}

// execRunner runs command lines as local subprocesses.
type execRunner struct {
	timeout time.Duration
}

// NewRunner creates a subprocess runner with a per-command timeout.
// A non-positive timeout falls back to DefaultTimeout.
func NewRunner(timeout time.Duration) Runner {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &execRunner{timeout: timeout}
}

// Run executes argv and captures both standard streams as one text blob.
// Trailing whitespace is the caller's concern. A non-zero exit, a missing
// binary, and a timeout all surface as execution errors.
func (r *execRunner) Run(ctx context.Context, argv []string) (string, error) {
	if len(argv) == 0 {
		return "", core.ErrInternal(core.CodeCommandFailed, "empty command line")
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", core.ErrExecution(core.CodeCommandTimeout,
				"command timed out after "+r.timeout.String()).
				WithDetail("command", strings.Join(argv, " "))
		}
		return "", core.ErrExecution(core.CodeCommandFailed,
			strings.TrimSpace(string(output))).
			WithCause(err).
			WithDetail("command", strings.Join(argv, " "))
	}

	return string(output), nil
}
