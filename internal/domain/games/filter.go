package games

import (
	"slices"
	"strings"
)

// FilterType selects the display order of the collection.
type FilterType string

const (
	FilterLastAdded FilterType = "last-added"
	FilterNewest    FilterType = "newest"
	FilterOldest    FilterType = "oldest"
)

// Filters lists the supported filters in display order.
var Filters = []FilterType{FilterLastAdded, FilterNewest, FilterOldest}

// Valid reports whether f is one of the known filters.
func (f FilterType) Valid() bool {
	return slices.Contains(Filters, f)
}

// Label is the human readable toggle label.
func (f FilterType) Label() string {
	switch f {
	case FilterNewest:
		return "Newest"
	case FilterOldest:
		return "Oldest"
	default:
		return "Last Added"
	}
}

// ParseFilter maps a raw identifier to a filter, defaulting to last-added.
func ParseFilter(raw string) FilterType {
	f := FilterType(strings.ToLower(strings.TrimSpace(raw)))
	if f.Valid() {
		return f
	}
	return FilterLastAdded
}

// Comparator returns the ordering for a filter. Unknown filters order as last-added.
//
// Missing release dates sort last under both chronological filters: they count as
// 0 for newest and as +inf for oldest.
func Comparator(filter FilterType) func(a, b SavedGame) int {
	switch filter {
	case FilterNewest:
		return func(a, b SavedGame) int {
			return compareInt64(releaseOr(b, 0), releaseOr(a, 0))
		}
	case FilterOldest:
		return compareOldest
	default:
		return func(a, b SavedGame) int {
			return b.AddedTime().Compare(a.AddedTime())
		}
	}
}

// FilteredAndSorted returns a newly allocated, ordered copy of games.
func FilteredAndSorted(games []SavedGame, filter FilterType) []SavedGame {
	out := slices.Clone(games)
	if out == nil {
		out = []SavedGame{}
	}
	slices.SortStableFunc(out, Comparator(filter))
	return out
}

func compareOldest(a, b SavedGame) int {
	switch {
	case a.FirstReleaseDate == nil && b.FirstReleaseDate == nil:
		return 0
	case a.FirstReleaseDate == nil:
		return 1
	case b.FirstReleaseDate == nil:
		return -1
	}
	return compareInt64(*a.FirstReleaseDate, *b.FirstReleaseDate)
}

func releaseOr(g SavedGame, fallback int64) int64 {
	if g.FirstReleaseDate == nil {
		return fallback
	}
	return *g.FirstReleaseDate
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
