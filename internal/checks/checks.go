// Package checks contains the diagnostic checks that consume the remote
// execution core and the management API client. Checks are read-and-format
// logic: they gather data through their collaborators and judge it, but
// never reach into transport details themselves.
package checks

import (
	"context"

	"github.com/fieldeng/clusterdoc/internal/api"
	"github.com/fieldeng/clusterdoc/internal/executor"
	"github.com/fieldeng/clusterdoc/internal/logging"
	"github.com/fieldeng/clusterdoc/internal/report"
)

// Executor is the slice of the dispatcher surface checks depend on.
type Executor interface {
	Mode() executor.Mode
	Targets() []string
	RunOne(ctx context.Context, command, target string, elevate bool) (string, error)
	RunBroadcast(ctx context.Context, command string, elevate bool) ([]executor.Result, error)
	ResolveInternalAddresses(ctx context.Context) (map[string]string, error)
}

// Env carries the collaborators a check may use. API is nil when no
// management API is configured; API-driven checks must skip in that case.
type Env struct {
	Exec   Executor
	API    *api.Client
	Logger *logging.Logger
}

// Check is one diagnostic check.
type Check struct {
	ID          string
	Description string
	Run         func(ctx context.Context, env *Env) report.Result
}

func pass(c Check, info map[string]string) report.Result {
	return report.Result{CheckID: c.ID, Description: c.Description, Status: report.StatusPass, Info: info}
}

func fail(c Check, info map[string]string) report.Result {
	return report.Result{CheckID: c.ID, Description: c.Description, Status: report.StatusFail, Info: info}
}

func inform(c Check, info map[string]string) report.Result {
	return report.Result{CheckID: c.ID, Description: c.Description, Status: report.StatusInfo, Info: info}
}

func failed(c Check, err error) report.Result {
	return report.Result{CheckID: c.ID, Description: c.Description, Status: report.StatusError, Err: err.Error()}
}

func skipped(c Check, reason string) report.Result {
	return report.Result{CheckID: c.ID, Description: c.Description, Status: report.StatusSkip, Err: reason}
}
