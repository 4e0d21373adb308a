package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jamiebuilds/bundlephobia-compare/internal/server"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/observability"
	"github.com/jamiebuilds/bundlephobia-compare/pkg/session"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, logFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the comparison page and JSON API over HTTP",
		Long: `Start an HTTP server with:

  /                 comparison page; the query lives in ?pkgs=
  /api/compare      JSON, table, DOT or SVG ranking (?pkgs=&format=)
  /metrics          prometheus metrics
  /healthz          liveness probe

All requests share one in-memory store of fetched packages.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("log-file") {
				logFile = c.cfg.Server.LogFile
			}
			return c.runServe(cmd.Context(), addr, logFile)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write logs to this file (rotated)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, logFile string) error {
	logger := c.Logger
	if logFile != "" {
		rw, err := newRotatingWriter(logFile)
		if err != nil {
			return err
		}
		defer rw.Close()
		logger = newLogger(io.MultiWriter(os.Stderr, rw), c.Logger.GetLevel())
	}

	client, closeCache, err := c.newClient(ctx)
	if err != nil {
		return err
	}
	defer closeCache()

	store := session.NewStore()
	metrics := server.NewMetrics(store)
	observability.SetFetchHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	srv := server.New(client, store, logger, server.Options{
		DefaultQuery:   c.cfg.DefaultQuery,
		Concurrency:    c.cfg.Concurrency,
		RequestTimeout: 2 * c.cfg.Timeout.Duration,
		Metrics:        metrics,
	})
	return srv.ListenAndServe(ctx, addr)
}
