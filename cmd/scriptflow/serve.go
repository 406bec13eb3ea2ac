package main

import (
	"strings"

	"github.com/aretw0/scriptflow"
	"github.com/aretw0/scriptflow/internal/cli"
	"github.com/aretw0/scriptflow/internal/metrics"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the graph and conversation sessions as a JSON API over HTTP,
with Server-Sent Events per session and Prometheus metrics on /metrics.
Sessions live in Redis when --redis-addr is set, otherwise under --session-dir.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, false)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		ctx := cli.NewSignalContext(cmd.Context())
		defer ctx.Cancel()

		collector := metrics.New()
		eng, err := cli.NewEngine(ctx, cfg, logger, cli.EngineOptions{Hooks: collector.Hooks()})
		if err != nil {
			return err
		}

		backend, err := cli.OpenBackend(cfg)
		if err != nil {
			return err
		}
		defer backend.Close()
		logger.Info("Session store ready", "backend", backend.Kind)

		mgr := eng.NewManager(backend.Store, backend.ManagerOptions(cfg, logger)...)
		return cli.Serve(ctx, mgr, cli.ServeOptions{
			Addr:    cfg.HTTP.Addr,
			Version: strings.TrimSpace(scriptflow.Version),
			Metrics: collector,
			Logger:  logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
