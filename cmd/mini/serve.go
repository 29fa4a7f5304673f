package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/internal/preview"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port int
		host string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the preview server",
		Long: `Start the preview server.

The server builds element specs over HTTP, streams fades over a WebSocket
and exposes Prometheus metrics.

Examples:
  mini serve
  mini serve --port=8080
  mini serve --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := opts.setup(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Preview.Port = port
			}
			if host != "" {
				cfg.Preview.Host = host
			}
			if err := cfg.Validate(); err != nil {
				return errors.FromError(err, "E130")
			}

			w := cmd.OutOrStdout()
			printBanner(w)
			info(w, "preview  %s", cfg.PreviewURL())
			if cfg.Preview.MetricsPath != "" {
				info(w, "metrics  %s%s", cfg.PreviewURL(), cfg.Preview.MetricsPath)
			} else {
				warn(w, "metrics disabled")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := preview.New(preview.Options{Config: cfg, Logger: logger})
			if err := srv.Start(ctx); err != nil {
				return err
			}
			success(w, "Server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from mini.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from mini.json)")

	return cmd
}
