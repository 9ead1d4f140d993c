package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/spanplan/internal/api"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string
	var accessLog bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve timelines over HTTP with live snapshot streams",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := api.Config{Addr: app.config().Server.Addr}
			if addr != "" {
				cfg.Addr = addr
			}
			if accessLog {
				cfg.AccessLog = cmd.ErrOrStderr()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app.watch(ctx)

			srv := api.NewServer(cfg, app.Timelines, app.Store, app.Logger)
			fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", cfg.Addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().BoolVar(&accessLog, "access-log", false, "Log each request to stderr")

	return cmd
}
