package checks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/report"
)

func findCheck(t *testing.T, id string) Check {
	t.Helper()
	matches := Default().Find(id)
	require.Len(t, matches, 1)
	return matches[0]
}

func TestCheckNodeOSRelease(t *testing.T) {
	exec := &fakeExec{
		targets: []string{"n1", "n2"},
		outputs: map[string]map[string]string{
			"n1": {"grep PRETTY_NAME /etc/os-release": `PRETTY_NAME="Ubuntu 22.04.4 LTS"`},
			"n2": {"grep PRETTY_NAME /etc/os-release": `PRETTY_NAME="Rocky Linux 9.3"`},
		},
	}

	result := findCheck(t, "node-os-release").Run(context.Background(), newEnv(exec, nil))

	assert.Equal(t, report.StatusInfo, result.Status)
	assert.Equal(t, "Ubuntu 22.04.4 LTS", result.Info["n1"])
	assert.Equal(t, "Rocky Linux 9.3", result.Info["n2"])
}

func TestCheckNodeAddresses(t *testing.T) {
	exec := &fakeExec{
		targets: []string{"n1", "n2"},
		addrs:   map[string]string{"n1": "10.0.0.1", "n2": "10.0.0.2"},
	}

	result := findCheck(t, "node-addresses").Run(context.Background(), newEnv(exec, nil))

	assert.Equal(t, report.StatusInfo, result.Status)
	assert.Equal(t, "10.0.0.1", result.Info["n1"])
}

func TestCheckNodeAddresses_Error(t *testing.T) {
	exec := &fakeExec{
		targets: []string{"n1"},
		addrErr: core.ErrExecution(core.CodeAddrResolve, "discovery failed"),
	}

	result := findCheck(t, "node-addresses").Run(context.Background(), newEnv(exec, nil))

	assert.Equal(t, report.StatusError, result.Status)
	assert.Contains(t, result.Err, "discovery failed")
}

func TestCheckNodeInstallDir(t *testing.T) {
	t.Run("set on all nodes", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1", "n2"},
			outputs: map[string]map[string]string{
				"n1": {"echo $INSTALL_DIR": "/opt/cluster\n"},
				"n2": {"echo $INSTALL_DIR": "/opt/cluster\n"},
			},
		}

		result := findCheck(t, "node-install-dir").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusPass, result.Status)
		assert.Equal(t, "/opt/cluster", result.Info["n1"])
	})

	t.Run("unset on one node", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1", "n2"},
			outputs: map[string]map[string]string{
				"n1": {"echo $INSTALL_DIR": "/opt/cluster\n"},
				"n2": {"echo $INSTALL_DIR": "   \n"},
			},
		}

		result := findCheck(t, "node-install-dir").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusFail, result.Status)
		assert.Equal(t, "/opt/cluster", result.Info["n1"])
		assert.Contains(t, result.Info["n2"], "not set")
	})

	t.Run("unreachable node surfaces as error", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1"},
			errs:    map[string]error{"n1": core.ErrExecution(core.CodeCommandFailed, "refused")},
		}

		result := findCheck(t, "node-install-dir").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusError, result.Status)
		assert.Contains(t, result.Err, "refused")
	})
}

func TestCheckNodeOpenFiles(t *testing.T) {
	t.Run("all above minimum", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1"},
			outputs: map[string]map[string]string{"n1": {"ulimit -n": "65536"}},
		}

		result := findCheck(t, "node-open-files").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusPass, result.Status)
		assert.Equal(t, "65536", result.Info["n1"])
	})

	t.Run("below minimum", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1", "n2"},
			outputs: map[string]map[string]string{
				"n1": {"ulimit -n": "1024"},
				"n2": {"ulimit -n": "65536"},
			},
		}

		result := findCheck(t, "node-open-files").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusFail, result.Status)
		assert.Contains(t, result.Info["n1"], "min: 10240")
	})
}

func TestCheckNodeSwap(t *testing.T) {
	const header = "Filename\t\t\t\tType\t\tSize\t\tUsed\t\tPriority"

	t.Run("disabled", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1"},
			outputs: map[string]map[string]string{"n1": {"cat /proc/swaps": header}},
		}

		result := findCheck(t, "node-swap").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusPass, result.Status)
		assert.Equal(t, "disabled", result.Info["n1"])
	})

	t.Run("enabled", func(t *testing.T) {
		exec := &fakeExec{
			targets: []string{"n1"},
			outputs: map[string]map[string]string{
				"n1": {"cat /proc/swaps": header + "\n/dev/sda2   partition\t8388604\t\t0\t\t-2"},
			},
		}

		result := findCheck(t, "node-swap").Run(context.Background(), newEnv(exec, nil))

		assert.Equal(t, report.StatusFail, result.Status)
		assert.Contains(t, result.Info["n1"], "swap enabled")
	})
}

func TestCheckNodeLogUsage(t *testing.T) {
	exec := &fakeExec{
		targets: []string{"n1"},
		outputs: map[string]map[string]string{
			"n1": {"df -h /var/log": "Filesystem  Size  Used Avail Use% Mounted on\n/dev/sda1    50G   12G   38G  24% /"},
		},
	}

	result := findCheck(t, "node-log-usage").Run(context.Background(), newEnv(exec, nil))

	assert.Equal(t, report.StatusInfo, result.Status)
	assert.Contains(t, result.Info["n1"], "24%")
}

func TestNodeChecks_TargetFailureSurfacesAsError(t *testing.T) {
	exec := &fakeExec{
		targets: []string{"n1"},
		errs:    map[string]error{"n1": core.ErrExecution(core.CodeCommandFailed, "refused")},
	}

	result := findCheck(t, "node-os-release").Run(context.Background(), newEnv(exec, nil))

	assert.Equal(t, report.StatusError, result.Status)
	assert.Contains(t, result.Err, "refused")
}
