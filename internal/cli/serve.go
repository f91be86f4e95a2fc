package cli

import (
	"net/http"
	"time"

	"github.com/arencloud/provisio/internal/api"
	"github.com/arencloud/provisio/internal/config"
	"github.com/arencloud/provisio/internal/db"
	"github.com/arencloud/provisio/internal/logging"
	"github.com/arencloud/provisio/internal/middleware"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the provisioning API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			cfg := config.Load()
			logger := logging.New(cfg.Env)
			if err := db.Init(cfg, logger); err != nil {
				logger.Error("failed to init db", "error", err)
				return err
			}
			r := api.Router(cfg, logger)
			srv := &http.Server{
				Addr:              ":" + cfg.HttpPort,
				Handler:           middleware.Recoverer(r, logger),
				ReadHeaderTimeout: 15 * time.Second,
				MaxHeaderBytes:    1 << 20,
			}
			logger.Info("server starting", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
