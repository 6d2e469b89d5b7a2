package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/search"
	"github.com/preston-bernstein/gaming-haven/internal/server"
)

var resultHeader = []string{"ID", "TITLE", "RELEASED", "RATING", "SLUG"}

func (a *app) searchClient() (*search.Client, func() error) {
	provider, closer := server.NewCatalog(a.cfg, a.logger)
	return search.NewClient(provider, search.ClientConfig{
		Limit:        a.cfg.Search.Limit,
		PopularLimit: a.cfg.Search.PopularLimit,
	}, a.logger), closer
}

func newSearchCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closer := a.searchClient()
			defer func() { _ = closer() }()

			query := strings.Join(args, " ")
			results, err := client.Search(cmd.Context(), query, limit)
			if err != nil {
				return err
			}
			return a.printer(cmd).print(map[string]any{
				"query":   strings.TrimSpace(query),
				"results": results,
			}, resultHeader, resultRows(results))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum results (default from config)")
	return cmd
}

func newPopularCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "List the suggestions shown for an empty query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, closer := a.searchClient()
			defer func() { _ = closer() }()

			results, err := client.Popular(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return a.printer(cmd).print(map[string]any{"results": results}, resultHeader, resultRows(results))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum suggestions (default from config)")
	return cmd
}

func resultRows(results []domaingames.SearchResult) [][]string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rating := ""
		if r.Rating > 0 {
			rating = strconv.FormatFloat(r.Rating, 'f', 1, 64)
		}
		rows = append(rows, []string{r.ID, r.Title, r.ReleaseDate, rating, r.Slug})
	}
	return rows
}
