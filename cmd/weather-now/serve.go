package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ngmaloney/weather-now/internal/api"
)

func newServeCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve current weather over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}

			a, closeApp, err := newApp(cfg, os.Stderr)
			if err != nil {
				return err
			}
			defer closeApp()

			// Set Gin mode from configuration
			gin.SetMode(cfg.Server.GinMode)

			var store api.HistoryStore
			if a.history != nil {
				store = a.history
			}
			server := api.NewServer(a.resolver, store, cfg.History.Limit, a.logger)

			a.logger.Info("starting server", "addr", cfg.GetServerAddr())
			if err := server.Run(cfg.GetServerAddr()); err != nil {
				a.logger.Error("server failed", "error", err)
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on (overrides server.port)")

	return cmd
}
