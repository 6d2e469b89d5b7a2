package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Run the HTTP API, search websocket and warm-up poller",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationServiceLogs: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(a.cfg); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if config.Watch(a.viper, a.logger, func(next config.Config) {
				a.level.Set(logging.ParseLevel(next.Log.Level))
				logging.Info(a.logger, "log level reloaded", "level", next.Log.Level)
			}) {
				logging.Info(a.logger, "watching config file", "file", a.viper.ConfigFileUsed())
			}

			srv, err := server.New(a.cfg, a.logger)
			if err != nil {
				return err
			}
			srv.Run(ctx, stop)
			return nil
		},
	}
}
