package executor

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/logging"
)

// addrDiscoveryCommand yields the internal addresses of a node; the first
// whitespace token is the primary one.
const addrDiscoveryCommand = "hostname -I"

// probeCommand is the no-op used to verify connectivity. Elevated, so the
// probe also proves privilege escalation works on the target.
const probeCommand = "pwd"

// Connectivity is the tri-state result of the one-time connection probe.
type Connectivity int

const (
	ConnUnknown Connectivity = iota
	ConnHealthy
	ConnUnhealthy
)

// Console receives human-readable progress from the connectivity probe.
type Console interface {
	Msgf(format string, args ...any)
	Successf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Pair is one (logical command, target) item of a batch.
type Pair struct {
	Command string
	Target  string
}

// Result is one completed execution of a batch or broadcast. Command and
// Target identify the originating pair so callers can correlate responses
// regardless of completion order.
type Result struct {
	Target  string
	Command string
	Output  string
	Err     error
}

// Dispatcher resolves logical commands into transport command lines and
// executes them against remote targets. It serializes concurrent access
// per target, memoizes results for the process lifetime, and reports
// connectivity health. Construct it once and share it; all methods are
// safe for concurrent use.
type Dispatcher struct {
	backend Backend
	runner  Runner
	targets []string
	logger  *logging.Logger
	console Console

	cache *resultCache

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex

	addrMu sync.Mutex
	addrs  map[string]string

	probeMu      sync.Mutex
	connectivity Connectivity
}

// New creates a dispatcher from an already-constructed backend.
func New(backend Backend, targets []string, runner Runner, logger *logging.Logger, console Console) (*Dispatcher, error) {
	if len(targets) == 0 {
		return nil, core.ErrConfig(core.CodeNoTargets, "no targets configured")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Dispatcher{
		backend: backend,
		runner:  runner,
		targets: targets,
		logger:  logger.WithMode(string(backend.Mode())),
		console: console,
		cache:   newResultCache(),
		locks:   make(map[string]*sync.Mutex),
	}, nil
}

// NewFromConfig constructs the backend selected by cfg and wires a
// subprocess runner with the configured timeout.
func NewFromConfig(cfg *config.Config, logger *logging.Logger, console Console) (*Dispatcher, error) {
	backend, targets, err := NewBackend(cfg)
	if err != nil {
		return nil, err
	}
	timeout, err := cfg.Exec.ParseTimeout()
	if err != nil {
		return nil, core.ErrConfig(core.CodeInvalidConfig, "exec.timeout: "+err.Error())
	}
	return New(backend, targets, NewRunner(timeout), logger, console)
}

// Mode returns the active backend mode.
func (d *Dispatcher) Mode() Mode {
	return d.backend.Mode()
}

// Targets returns the configured targets in construction order.
func (d *Dispatcher) Targets() []string {
	out := make([]string, len(d.targets))
	copy(out, d.targets)
	return out
}

// RunOne executes a logical command on a single target, memoizing the
// result. A repeated request for the same (command, elevate) pair on a
// target returns the cached output without re-executing.
func (d *Dispatcher) RunOne(ctx context.Context, command, target string, elevate bool) (string, error) {
	if out, ok := d.cache.get(target, command, elevate); ok {
		return out, nil
	}

	lock := d.lockFor(target)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent caller may have populated the cache while this one
	// waited on the target lock.
	if out, ok := d.cache.get(target, command, elevate); ok {
		return out, nil
	}

	argv := d.backend.Build(target, command, elevate)
	d.logger.Debug("executing remote command", "target", target, "command", command, "elevate", elevate)

	out, err := d.runner.Run(ctx, argv)
	if err != nil {
		return "", err
	}

	out = strings.TrimSpace(out)
	d.cache.put(target, command, elevate, out)
	return out, nil
}

// RunBatch executes arbitrary (command, target) pairs concurrently, with
// parallelism equal to the batch size. Per-pair failures are carried in
// each Result; they never abort sibling pairs. The returned error is
// reserved for internal scheduling faults, not remote command failures.
func (d *Dispatcher) RunBatch(ctx context.Context, pairs []Pair, elevate bool) ([]Result, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	results := make([]Result, len(pairs))
	g := new(errgroup.Group)
	g.SetLimit(len(pairs))
	for i, p := range pairs {
		i, p := i, p
		g.Go(func() error {
			out, err := d.RunOne(ctx, p.Command, p.Target, elevate)
			results[i] = Result{Target: p.Target, Command: p.Command, Output: out, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, core.ErrInternal(core.CodeBatchIncomplete, "batch did not run to completion").WithCause(err)
	}
	return results, nil
}

// RunBroadcast executes one logical command on every configured target.
func (d *Dispatcher) RunBroadcast(ctx context.Context, command string, elevate bool) ([]Result, error) {
	pairs := make([]Pair, len(d.targets))
	for i, target := range d.targets {
		pairs[i] = Pair{Command: command, Target: target}
	}
	return d.RunBatch(ctx, pairs, elevate)
}

// ResolveInternalAddress returns the internal address of one target.
func (d *Dispatcher) ResolveInternalAddress(ctx context.Context, target string) (string, error) {
	addrs, err := d.ResolveInternalAddresses(ctx)
	if err != nil {
		return "", err
	}
	addr, ok := addrs[target]
	if !ok {
		return "", core.ErrExecution(core.CodeAddrResolve, "unknown target: "+target)
	}
	return addr, nil
}

// ResolveInternalAddresses broadcasts the address discovery command once
// and caches the target→address mapping for the process lifetime. Any
// per-target failure fails the resolution and leaves the cache empty.
func (d *Dispatcher) ResolveInternalAddresses(ctx context.Context) (map[string]string, error) {
	d.addrMu.Lock()
	defer d.addrMu.Unlock()

	if d.addrs != nil {
		return copyAddrs(d.addrs), nil
	}

	results, err := d.RunBroadcast(ctx, addrDiscoveryCommand, false)
	if err != nil {
		return nil, err
	}

	addrs := make(map[string]string, len(results))
	for _, r := range results {
		if r.Err != nil {
			return nil, core.ErrExecution(core.CodeAddrResolve,
				"address discovery failed on "+r.Target).WithCause(r.Err)
		}
		fields := strings.Fields(r.Output)
		if len(fields) == 0 {
			return nil, core.ErrExecution(core.CodeAddrResolve,
				"address discovery returned no output on "+r.Target)
		}
		addrs[r.Target] = fields[0]
	}

	d.addrs = addrs
	return copyAddrs(addrs), nil
}

// Connectivity returns the recorded probe state.
func (d *Dispatcher) Connectivity() Connectivity {
	d.probeMu.Lock()
	defer d.probeMu.Unlock()
	return d.connectivity
}

// EnsureChecked probes every target once with a trivial elevated command
// and records overall health. Probes run sequentially to keep the
// diagnostic output ordered. Failures are reported, not raised: later
// checks may not need every target. Subsequent calls are no-ops.
func (d *Dispatcher) EnsureChecked(ctx context.Context) {
	d.probeMu.Lock()
	defer d.probeMu.Unlock()

	if d.connectivity != ConnUnknown {
		return
	}

	d.console.Msgf("checking %s connections ...", d.backend.Mode())
	state := ConnHealthy
	for _, target := range d.targets {
		if _, err := d.RunOne(ctx, probeCommand, target, true); err != nil {
			d.console.Errorf("- could not connect to %s: %v", target, err)
			d.logger.Warn("connectivity probe failed", "target", target, "error", err)
			state = ConnUnhealthy
			continue
		}
		d.console.Successf("- successfully connected to %s", target)
	}
	d.console.Msgf("")

	d.connectivity = state
}

// lockFor returns the per-target mutex, creating it on first use. The
// map insert is guarded separately from the long-held per-target lock.
func (d *Dispatcher) lockFor(target string) *sync.Mutex {
	d.lockMu.Lock()
	defer d.lockMu.Unlock()
	lock, ok := d.locks[target]
	if !ok {
		lock = new(sync.Mutex)
		d.locks[target] = lock
	}
	return lock
}

func copyAddrs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
