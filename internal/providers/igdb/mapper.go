package igdb

import (
	"strconv"
	"strings"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

func mapGame(g gameResponse) domaingames.SearchResult {
	r := domaingames.SearchResult{
		ID:             strconv.FormatInt(g.ID, 10),
		Title:          strings.TrimSpace(g.Name),
		Slug:           g.Slug,
		Summary:        strings.TrimSpace(g.Summary),
		Rating:         g.TotalRating,
		Platforms:      mapPlatforms(g.Platforms),
		SimilarGameIDs: mapIDs(g.SimilarGames),
	}
	if g.Cover != nil {
		r.ImageID = g.Cover.ImageID
		r.ImageURL = domaingames.ImageURL(g.Cover.ImageID, domaingames.ImageCoverBig)
	}
	if g.FirstReleaseDate != nil {
		first := *g.FirstReleaseDate
		r.FirstReleaseDate = &first
		r.ReleaseDate = time.Unix(first, 0).UTC().Format(releaseDateLayout)
	}
	return r
}

func mapGames(in []gameResponse) []domaingames.SearchResult {
	out := make([]domaingames.SearchResult, 0, len(in))
	for _, g := range in {
		out = append(out, mapGame(g))
	}
	return out
}

func mapPlatforms(in []platformResponse) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, p := range in {
		if name := strings.TrimSpace(p.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

func mapIDs(in []int64) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, id := range in {
		out = append(out, strconv.FormatInt(id, 10))
	}
	return out
}
