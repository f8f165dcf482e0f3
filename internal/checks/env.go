package checks

import (
	"context"
	"strings"

	"github.com/fieldeng/clusterdoc/internal/core"
)

// RemoteEnvVar reads an environment variable on a target. Checks use it
// to discover install paths before building logical commands.
func RemoteEnvVar(ctx context.Context, exec Executor, target, name string) (string, error) {
	out, err := exec.RunOne(ctx, "echo $"+name, target, false)
	if err != nil {
		return "", err
	}
	value := strings.TrimSpace(out)
	if value == "" {
		return "", core.ErrExecution(core.CodeEnvVarEmpty,
			name+" is not set on "+target)
	}
	return value, nil
}
