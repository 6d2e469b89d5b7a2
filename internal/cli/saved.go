package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/gaming-haven/internal/collection"
	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/server"
)

var savedHeader = []string{"ID", "TITLE", "RELEASED", "ADDED", "SLUG"}

func newSavedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Inspect and edit the saved-games collection",
	}
	cmd.AddCommand(
		newSavedListCmd(a),
		newSavedAddCmd(a),
		newSavedRemoveCmd(a),
		newSavedClearCmd(a),
	)
	return cmd
}

// withCollection opens the configured storage for the duration of fn.
func (a *app) withCollection(cmd *cobra.Command, fn func(*collection.Store) error) error {
	store, closer, err := server.OpenCollection(cmd.Context(), a.cfg.Storage, a.logger)
	if err != nil {
		return err
	}
	defer func() { _ = closer() }()
	defer store.Close()
	return fn(store)
}

func newSavedListCmd(a *app) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved games",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			active := domaingames.ParseFilter(filter)
			return a.withCollection(cmd, func(store *collection.Store) error {
				games := store.FilteredAndSorted(active)
				return a.printer(cmd).print(map[string]any{
					"filter": active,
					"games":  games,
				}, savedHeader, savedRows(games))
			})
		},
	}
	cmd.Flags().StringVar(&filter, "filter", string(domaingames.FilterLastAdded), "ordering: last-added|newest|oldest")
	return cmd
}

func newSavedAddCmd(a *app) *cobra.Command {
	var pick int
	cmd := &cobra.Command{
		Use:   "add <query>",
		Short: "Search the catalog and save the chosen result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closer := a.searchClient()
			defer func() { _ = closer() }()

			query := strings.Join(args, " ")
			results, err := client.Search(cmd.Context(), query, 0)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				return fmt.Errorf("no catalog results for %q", query)
			}
			if pick < 1 || pick > len(results) {
				return fmt.Errorf("--pick must be between 1 and %d", len(results))
			}
			chosen := results[pick-1]

			return a.withCollection(cmd, func(store *collection.Store) error {
				added := store.Add(chosen)
				resp := map[string]any{"added": added, "id": chosen.ID, "title": chosen.Title}
				status := "added"
				if !added {
					status = "already saved"
					resp["reason"] = status
				}
				return a.printer(cmd).print(resp, []string{"ID", "TITLE", "STATUS"},
					[][]string{{chosen.ID, chosen.Title, status}})
			})
		},
	}
	cmd.Flags().IntVar(&pick, "pick", 1, "1-based index of the search result to save")
	return cmd
}

func newSavedRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove games from the collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withCollection(cmd, func(store *collection.Store) error {
				rows := make([][]string, 0, len(args))
				removed := make([]string, 0, len(args))
				for _, id := range args {
					status := "not saved"
					if store.IsSaved(id) {
						store.Remove(id)
						removed = append(removed, id)
						status = "removed"
					}
					rows = append(rows, []string{id, status})
				}
				return a.printer(cmd).print(map[string]any{"removed": removed}, []string{"ID", "STATUS"}, rows)
			})
		},
	}
}

func newSavedClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every saved game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to clear the collection without --yes")
			}
			return a.withCollection(cmd, func(store *collection.Store) error {
				count := store.Len()
				store.Clear()
				return a.printer(cmd).print(map[string]any{"cleared": count}, []string{"CLEARED"},
					[][]string{{fmt.Sprint(count)}})
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing the collection")
	return cmd
}

func savedRows(games []domaingames.SavedGame) [][]string {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, []string{g.ID, g.Title, g.ReleaseDate, g.AddedAt, g.Slug})
	}
	return rows
}
