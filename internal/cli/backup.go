package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/gaming-haven/internal/backup"
	"github.com/preston-bernstein/gaming-haven/internal/collection"
	"github.com/preston-bernstein/gaming-haven/internal/server"
	"github.com/preston-bernstein/gaming-haven/internal/timeutil"
)

func newBackupCmd(a *app) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Write the collection backup for a day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date = strings.TrimSpace(date)
			if date == "" {
				date = timeutil.Today(time.Now())
			}
			if _, err := timeutil.ParseDate(date); err != nil {
				return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", date)
			}

			return a.withBackup(cmd, func(w *backup.Writer) error {
				return a.withCollection(cmd, func(store *collection.Store) error {
					games := store.Games()
					if err := w.WriteCollectionBackup(cmd.Context(), date, games); err != nil {
						return err
					}
					return a.printer(cmd).print(map[string]any{
						"date":   date,
						"count":  len(games),
						"status": "ok",
					}, []string{"DATE", "COUNT", "STATUS"}, [][]string{{date, strconv.Itoa(len(games)), "ok"}})
				})
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "backup date (YYYY-MM-DD, UTC)")

	cmd.AddCommand(newBackupManifestCmd(a), newBackupShowCmd(a))
	return cmd
}

func newBackupManifestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manifest",
		Short: "Show which backups exist in the bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackup(cmd, func(w *backup.Writer) error {
				m := w.Manifest(cmd.Context())
				rows := make([][]string, 0, len(m.Collections.Dates))
				for _, d := range m.Collections.Dates {
					rows = append(rows, []string{d})
				}
				return a.printer(cmd).print(m, []string{"DATE"}, rows)
			})
		},
	}
}

func newBackupShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <date>",
		Short: "Print the games stored in one backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withBackup(cmd, func(w *backup.Writer) error {
				games, err := w.Read(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return a.printer(cmd).print(map[string]any{
					"date":  args[0],
					"games": games,
				}, savedHeader, savedRows(games))
			})
		},
	}
}

func (a *app) withBackup(cmd *cobra.Command, fn func(*backup.Writer) error) error {
	w, err := server.OpenBackup(cmd.Context(), a.cfg.Backup, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	return fn(w)
}
