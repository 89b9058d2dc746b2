package main

import (
	"github.com/spf13/cobra"

	"github.com/verte-zerg/ontap/internal/server"
)

const defaultAddr = ":8080"

var serveAddr string

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the subscription and progress API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	applyStringConfig(cmd, "addr", &serveAddr, a.cfg.Server.Addr)
	analytics := server.NewLedgerAnalytics(a.slot, a.engine, a.log)
	srv := server.New(a.registry(), analytics, a.log)
	logErrf("Listening on %s\n", serveAddr)
	return srv.Run(cmd.Context(), serveAddr)
}
