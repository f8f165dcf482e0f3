package checks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fieldeng/clusterdoc/internal/api"
	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/core"
	"github.com/fieldeng/clusterdoc/internal/executor"
	"github.com/fieldeng/clusterdoc/internal/logging"
)

// fakeExec scripts executor behavior per (target, command).
type fakeExec struct {
	targets []string
	outputs map[string]map[string]string // target -> command -> output
	errs    map[string]error             // target -> error
	addrs   map[string]string
	addrErr error
}

func (f *fakeExec) Mode() executor.Mode { return executor.ModeSSH }

func (f *fakeExec) Targets() []string { return f.targets }

func (f *fakeExec) RunOne(_ context.Context, command, target string, _ bool) (string, error) {
	if err := f.errs[target]; err != nil {
		return "", err
	}
	if out, ok := f.outputs[target][command]; ok {
		return out, nil
	}
	return "", core.ErrExecution(core.CodeCommandFailed, "unscripted command: "+command)
}

func (f *fakeExec) RunBroadcast(ctx context.Context, command string, elevate bool) ([]executor.Result, error) {
	results := make([]executor.Result, 0, len(f.targets))
	for _, target := range f.targets {
		out, err := f.RunOne(ctx, command, target, elevate)
		results = append(results, executor.Result{
			Target: target, Command: command, Output: out, Err: err,
		})
	}
	return results, nil
}

func (f *fakeExec) ResolveInternalAddresses(context.Context) (map[string]string, error) {
	if f.addrErr != nil {
		return nil, f.addrErr
	}
	return f.addrs, nil
}

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(config.APIConfig{URL: srv.URL}, logging.NewNop())
	require.NoError(t, err)
	return client
}

func newEnv(exec Executor, client *api.Client) *Env {
	return &Env{Exec: exec, API: client, Logger: logging.NewNop()}
}
