package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/viper"

	"github.com/fieldeng/clusterdoc/internal/api"
	"github.com/fieldeng/clusterdoc/internal/checks"
	"github.com/fieldeng/clusterdoc/internal/config"
	"github.com/fieldeng/clusterdoc/internal/executor"
	"github.com/fieldeng/clusterdoc/internal/logging"
	"github.com/fieldeng/clusterdoc/internal/report"
)

// loadConfig loads and validates configuration using the global viper
// instance so CLI flag bindings take effect, and builds the logger from it.
func loadConfig() (*config.Config, *logging.Logger, *config.Loader, error) {
	loader := config.NewLoaderWithViper(viper.GetViper())
	if cfgFile != "" {
		loader.WithConfigFile(cfgFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, nil, nil, fmt.Errorf("validating config: %w", err)
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	return cfg, logger, loader, nil
}

// newConsole returns the console for human-readable output. Quiet mode
// discards it; logs still go to stderr.
func newConsole() *report.Console {
	var out io.Writer = os.Stdout
	if quiet {
		out = io.Discard
	}
	return report.NewConsole(out)
}

// executeChecks builds a fresh dispatcher, probes connectivity, runs the
// checks matching pattern, and returns the aggregate report. Each run gets
// its own dispatcher so memoized results never leak between runs.
func executeChecks(ctx context.Context, cfg *config.Config, logger *logging.Logger, console *report.Console, pattern string) (*report.Report, error) {
	disp, err := executor.NewFromConfig(cfg, logger, console)
	if err != nil {
		return nil, err
	}

	env := &checks.Env{Exec: disp, Logger: logger}
	if cfg.API.URL != "" {
		client, err := api.New(cfg.API, logger)
		if err != nil {
			return nil, err
		}
		env.API = client
	}

	selected := checks.Default().Find(pattern)
	if len(selected) == 0 {
		return nil, fmt.Errorf("no checks match %q", pattern)
	}

	disp.EnsureChecked(ctx)

	rep := report.New(string(disp.Mode()), disp.Targets())
	for _, c := range selected {
		result := c.Run(ctx, env)
		rep.Add(result)
		console.PrintResult(result)
	}

	return rep, nil
}
