package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fieldeng/clusterdoc/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run checks and serve the report over HTTP",
	Long: `Run the diagnostic checks once and keep serving the resulting
report over HTTP. When the config file changes the checks re-run and the
served report is replaced.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, logger, loader, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	console := newConsole()
	srv := web.NewServer(cfg.Serve, logger)

	rep, err := executeChecks(ctx, cfg, logger, console, "")
	if err != nil {
		return err
	}
	srv.SetReport(rep)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.ListenAndServe(ctx)
	})

	if path := loader.ConfigFile(); path != "" {
		g.Go(func() error {
			return web.WatchConfig(ctx, path, logger, func() {
				newCfg, newLogger, _, err := loadConfig()
				if err != nil {
					logger.Error("config reload failed", "error", err)
					return
				}
				rep, err := executeChecks(ctx, newCfg, newLogger, console, "")
				if err != nil {
					logger.Error("check re-run failed", "error", err)
					return
				}
				srv.SetReport(rep)
			})
		})
	}

	return g.Wait()
}
