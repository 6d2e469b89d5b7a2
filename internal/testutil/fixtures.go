package testutil

import (
	"fmt"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

// SampleResult returns a minimal search result fixture with the provided id.
func SampleResult(id string) domaingames.SearchResult {
	return domaingames.SearchResult{
		ID:      id,
		Title:   "Game " + id,
		Slug:    "game-" + id,
		ImageID: "co" + id,
	}
}

// SampleResults returns n results with ids "1".."n".
func SampleResults(n int) []domaingames.SearchResult {
	out := make([]domaingames.SearchResult, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, SampleResult(fmt.Sprint(i)))
	}
	return out
}

// SampleSavedGame returns a saved game with the given id, addedAt and optional release date.
func SampleSavedGame(id, addedAt string, firstRelease *int64) domaingames.SavedGame {
	return domaingames.SavedGame{
		ID:               id,
		Title:            "Game " + id,
		Slug:             "game-" + id,
		ImageURL:         domaingames.ImageURL("co"+id, domaingames.ImageCoverBig),
		AddedAt:          addedAt,
		FirstReleaseDate: firstRelease,
	}
}
