package executor

import (
	"strings"

	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/core"
)

// Mode identifies the transport backend used to reach all targets for one
// process run.
type Mode string

const (
	ModeSSH    Mode = "ssh"
	ModeDocker Mode = "docker"
	ModeK8s    Mode = "k8s"
)

// orchestratorContainer is the container all pod-exec invocations pin.
// Cluster pods run a single well-known node container next to sidecars.
const orchestratorContainer = "cluster-node"

// sshOptions keep ssh non-interactive and reuse one multiplexed connection
// per target across the run.
var sshOptions = []string{
	"-o", "ControlMaster=auto",
	"-o", "ControlPersist=60s",
	"-o", "StrictHostKeyChecking=no",
	"-o", "UserKnownHostsFile=/dev/null",
	"-o", "IdentitiesOnly=yes",
	"-o", "AddKeysToAgent=no",
}

// Backend builds transport-level command lines for one backend mode.
// Build is a pure function of its inputs and the backend's fixed
// parameters; it returns the argv to hand to the transport runner.
type Backend interface {
	Mode() Mode
	Build(target, command string, elevate bool) []string
}

// NewBackend constructs the backend selected by the configuration and
// returns it together with the ordered target list. Zero or multiple
// backend sections, or a missing required parameter, is a configuration
// error: the dispatcher must refuse to start rather than fail mid-run.
func NewBackend(cfg *config.Config) (Backend, []string, error) {
	count := 0
	if cfg.SSH != nil {
		count++
	}
	if cfg.Docker != nil {
		count++
	}
	if cfg.K8s != nil {
		count++
	}
	if count == 0 {
		return nil, nil, core.ErrConfig(core.CodeBackendMissing,
			"no remote backend configured: one of ssh, docker, or k8s is required")
	}
	if count > 1 {
		return nil, nil, core.ErrConfig(core.CodeBackendConflict,
			"multiple remote backends configured: exactly one of ssh, docker, or k8s is allowed")
	}

	switch {
	case cfg.SSH != nil:
		targets := splitTargets(cfg.SSH.Hosts)
		if len(targets) == 0 {
			return nil, nil, core.ErrConfig(core.CodeNoTargets, "ssh.hosts is empty")
		}
		return &sshBackend{user: cfg.SSH.User, key: cfg.SSH.Key}, targets, nil

	case cfg.Docker != nil:
		targets := splitTargets(cfg.Docker.Containers)
		if len(targets) == 0 {
			return nil, nil, core.ErrConfig(core.CodeNoTargets, "docker.containers is empty")
		}
		return &dockerBackend{}, targets, nil

	default:
		targets := splitTargets(cfg.K8s.Pods)
		if len(targets) == 0 {
			return nil, nil, core.ErrConfig(core.CodeNoTargets, "k8s.pods is empty")
		}
		if strings.TrimSpace(cfg.K8s.Namespace) == "" {
			return nil, nil, core.ErrConfig(core.CodeMissingParameter, "k8s.namespace is required")
		}
		return &k8sBackend{namespace: cfg.K8s.Namespace}, targets, nil
	}
}

// splitTargets parses a comma-separated target list, preserving order.
func splitTargets(s string) []string {
	var targets []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

// sshBackend reaches targets through a remote shell.
type sshBackend struct {
	user string
	key  string
}

func (b *sshBackend) Mode() Mode { return ModeSSH }

func (b *sshBackend) Build(target, command string, elevate bool) []string {
	argv := append([]string{"ssh"}, sshOptions...)
	if b.key != "" {
		argv = append(argv, "-i", b.key)
	}
	if b.user != "" {
		argv = append(argv, b.user+"@"+target)
	} else {
		argv = append(argv, target)
	}
	if elevate {
		command = "sudo " + command
	}
	// The remote shell parses the command; it travels as one argument.
	return append(argv, "-C", command)
}

// dockerBackend reaches targets through the container runtime CLI.
type dockerBackend struct{}

func (b *dockerBackend) Mode() Mode { return ModeDocker }

func (b *dockerBackend) Build(target, command string, elevate bool) []string {
	argv := []string{"docker", "exec"}
	if elevate {
		argv = append(argv, "--user", "root")
	}
	// No remote shell is involved, so run the command through sh for
	// word splitting and pipes.
	return append(argv, target, "sh", "-c", command)
}

// k8sBackend reaches targets through the orchestrator CLI. It has no
// elevation flag: the logical command itself must request elevation.
type k8sBackend struct {
	namespace string
}

func (b *k8sBackend) Mode() Mode { return ModeK8s }

func (b *k8sBackend) Build(target, command string, _ bool) []string {
	return []string{
		"kubectl", "exec", target,
		"--container", orchestratorContainer,
		"--namespace", b.namespace,
		"--", "sh", "-c", command,
	}
}
