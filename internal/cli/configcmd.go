package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/gaming-haven/internal/config"
)

const redacted = "****"

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Validate and print the effective config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Validate(a.cfg); err != nil {
				return fmt.Errorf("config invalid: %w", err)
			}
			cfg := redact(a.cfg)
			source := "environment"
			if a.viper != nil && a.viper.ConfigFileUsed() != "" {
				source = a.viper.ConfigFileUsed()
			}
			return a.printer(cmd).print(cfg, []string{"SETTING", "VALUE"}, [][]string{
				{"source", source},
				{"port", cfg.Port},
				{"provider", cfg.Provider},
				{"poll_interval", cfg.PollInterval.String()},
				{"storage.driver", cfg.Storage.Driver},
				{"cache.driver", cfg.Cache.Driver},
				{"metrics.enabled", fmt.Sprint(cfg.Metrics.Enabled)},
				{"backup.enabled", fmt.Sprint(cfg.Backup.Enabled)},
				{"status", "ok"},
			})
		},
	})
	return cmd
}

func redact(cfg config.Config) config.Config {
	if cfg.AdminToken != "" {
		cfg.AdminToken = redacted
	}
	if cfg.IGDB.ClientSecret != "" {
		cfg.IGDB.ClientSecret = redacted
	}
	if cfg.Storage.DSN != "" {
		cfg.Storage.DSN = redacted
	}
	return cfg
}
