package checks

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/report"
)

// minOpenFiles is the lowest acceptable per-process file descriptor limit
// for a cluster node.
const minOpenFiles = 10240

// installDirVar names the install location of the cluster software in a
// node's login environment.
const installDirVar = "INSTALL_DIR"

func registerNodeChecks(r *Registry) {
	r.Register(checkNodeOSRelease())
	r.Register(checkNodeAddresses())
	r.Register(checkNodeInstallDir())
	r.Register(checkNodeOpenFiles())
	r.Register(checkNodeSwap())
	r.Register(checkNodeLogUsage())
}

// checkNodeOSRelease reports the OS release of every node.
func checkNodeOSRelease() Check {
	c := Check{
		ID:          "node-os-release",
		Description: "Get OS release of each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		results, err := env.Exec.RunBroadcast(ctx, "grep PRETTY_NAME /etc/os-release", false)
		if err != nil {
			return failed(c, err)
		}

		info := make(map[string]string, len(results))
		for _, res := range results {
			if res.Err != nil {
				return failed(c, res.Err)
			}
			info[res.Target] = strings.Trim(strings.TrimPrefix(res.Output, "PRETTY_NAME="), `"`)
		}
		return inform(c, info)
	}
	return c
}

// checkNodeAddresses reports the internal address of every node.
func checkNodeAddresses() Check {
	c := Check{
		ID:          "node-addresses",
		Description: "Get internal address of each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		addrs, err := env.Exec.ResolveInternalAddresses(ctx)
		if err != nil {
			return failed(c, err)
		}
		return inform(c, addrs)
	}
	return c
}

// checkNodeInstallDir locates the cluster software on every node. An
// unset variable means the software is missing or the login shell does
// not source the cluster profile; either way later path-based commands
// would fail on that node.
func checkNodeInstallDir() Check {
	c := Check{
		ID:          "node-install-dir",
		Description: "Locate cluster install directory on each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		targets := env.Exec.Targets()
		info := make(map[string]string, len(targets))
		ok := true
		for _, target := range targets {
			dir, err := RemoteEnvVar(ctx, env.Exec, target, installDirVar)
			if err != nil {
				if errors.Is(err, core.ErrExecution(core.CodeEnvVarEmpty, "")) {
					ok = false
					info[target] = installDirVar + " not set"
					continue
				}
				return failed(c, err)
			}
			info[target] = dir
		}
		if !ok {
			return fail(c, info)
		}
		return pass(c, info)
	}
	return c
}

// checkNodeOpenFiles verifies the file descriptor limit on every node.
func checkNodeOpenFiles() Check {
	c := Check{
		ID:          "node-open-files",
		Description: "Check open file limit of each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		results, err := env.Exec.RunBroadcast(ctx, "ulimit -n", false)
		if err != nil {
			return failed(c, err)
		}

		info := make(map[string]string, len(results))
		ok := true
		for _, res := range results {
			if res.Err != nil {
				return failed(c, res.Err)
			}
			limit, err := strconv.Atoi(strings.TrimSpace(res.Output))
			if err != nil || limit < minOpenFiles {
				ok = false
				info[res.Target] = res.Output + " (min: " + strconv.Itoa(minOpenFiles) + ")"
				continue
			}
			info[res.Target] = res.Output
		}
		if !ok {
			return fail(c, info)
		}
		return pass(c, info)
	}
	return c
}

// checkNodeSwap verifies swap is disabled on every node. Swapping a
// latency-sensitive cluster node stalls it long enough to be evicted.
func checkNodeSwap() Check {
	c := Check{
		ID:          "node-swap",
		Description: "Check swap is disabled on each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		results, err := env.Exec.RunBroadcast(ctx, "cat /proc/swaps", true)
		if err != nil {
			return failed(c, err)
		}

		info := make(map[string]string, len(results))
		ok := true
		for _, res := range results {
			if res.Err != nil {
				return failed(c, res.Err)
			}
			// /proc/swaps has a header line; anything beyond it is an
			// active swap device.
			if lines := strings.Split(strings.TrimSpace(res.Output), "\n"); len(lines) > 1 {
				ok = false
				info[res.Target] = "swap enabled: " + strings.TrimSpace(lines[1])
				continue
			}
			info[res.Target] = "disabled"
		}
		if !ok {
			return fail(c, info)
		}
		return pass(c, info)
	}
	return c
}

// checkNodeLogUsage reports log filesystem usage on every node.
func checkNodeLogUsage() Check {
	c := Check{
		ID:          "node-log-usage",
		Description: "Get log directory usage of each node",
	}
	c.Run = func(ctx context.Context, env *Env) report.Result {
		results, err := env.Exec.RunBroadcast(ctx, "df -h /var/log", false)
		if err != nil {
			return failed(c, err)
		}

		info := make(map[string]string, len(results))
		for _, res := range results {
			if res.Err != nil {
				return failed(c, res.Err)
			}
			lines := strings.Split(strings.TrimSpace(res.Output), "\n")
			info[res.Target] = strings.Join(strings.Fields(lines[len(lines)-1]), " ")
		}
		return inform(c, info)
	}
	return c
}
