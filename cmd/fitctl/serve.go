package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/akkash/bizsearch-new-sub002/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API without Zeebe workers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.HTTP.Addr
		}

		a, err := app.New(ctx, cfg, zap.L(), app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		return a.HTTPServer().Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default: http.addr)")
	rootCmd.AddCommand(serveCmd)
}
