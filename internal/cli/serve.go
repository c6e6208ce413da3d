package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/studyhub/internal/server"
)

func newServeCommand(d *Deps) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve dashboard aggregates as JSON for chart front-ends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := d.AuthedClient()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = d.Config.Server.Addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(addr, server.NewHandler(d.Refresher(client)), d.Logger, d.Metrics)
			cmd.Printf("Serving on http://%s\n", addr)
			return srv.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}
