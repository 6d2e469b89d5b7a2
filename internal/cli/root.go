// Package cli holds the haven command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
)

const (
	serviceName = "gaming-haven"

	// annotationServiceLogs marks commands whose logs go to the configured sink
	// instead of stderr.
	annotationServiceLogs = "haven/service-logs"
)

// app carries flags and the resolved configuration shared by every command.
type app struct {
	version  string
	cfgFile  string
	output   string
	logLevel string

	cfg    config.Config
	viper  *viper.Viper
	level  *slog.LevelVar
	logger *slog.Logger
}

// NewRoot returns the haven command with all subcommands attached.
func NewRoot(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:           "haven",
		Short:         "Search the game catalog and manage the saved-games collection",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (yaml, json or toml); environment variables override it")
	flags.StringVarP(&a.output, "output", "o", formatTable, "output format: table|json|yaml")
	flags.StringVar(&a.logLevel, "log-level", "", "log level override: debug|info|warn|error")

	root.AddCommand(
		newServeCmd(a),
		newSearchCmd(a),
		newPopularCmd(a),
		newSavedCmd(a),
		newBackupCmd(a),
		newConfigCmd(a),
	)
	return root
}

func (a *app) load(cmd *cobra.Command) error {
	if !validFormat(a.output) {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, v, err := config.LoadFile(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg, a.viper = cfg, v

	level := cfg.Log.Level
	var out io.Writer
	if _, ok := cmd.Annotations[annotationServiceLogs]; !ok {
		// One-shot commands keep stdout for results and stay quiet unless asked.
		out = cmd.ErrOrStderr()
		level = "warn"
	}
	if a.logLevel != "" {
		level = a.logLevel
	}

	a.level = new(slog.LevelVar)
	a.logger = logging.NewLogger(logging.Config{
		Level:      level,
		Format:     cfg.Log.Format,
		Service:    serviceName,
		Version:    a.version,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
		LevelVar:   a.level,
		Output:     out,
	})
	return nil
}

func (a *app) printer(cmd *cobra.Command) printer {
	return printer{format: a.output, w: cmd.OutOrStdout()}
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context, version string, args []string, stdout, stderr io.Writer) error {
	root := NewRoot(version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}
