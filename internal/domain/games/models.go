package games

import (
	"fmt"
	"strings"
	"time"
)

const imageBaseURL = "https://images.igdb.com/igdb/image/upload"

// ImageSize names a catalog image rendition.
type ImageSize string

const (
	ImageThumb      ImageSize = "thumb"
	ImageCoverSmall ImageSize = "cover_small"
	ImageCoverBig   ImageSize = "cover_big"
	Image720p       ImageSize = "720p"
	Image1080p      ImageSize = "1080p"
)

// ImageURL builds a size-specific image URL from an opaque catalog image id.
func ImageURL(imageID string, size ImageSize) string {
	imageID = strings.TrimSpace(imageID)
	if imageID == "" {
		return ""
	}
	if size == "" {
		size = ImageCoverBig
	}
	return fmt.Sprintf("%s/t_%s/%s.jpg", imageBaseURL, size, imageID)
}

// SavedGame is an entry in the user's collection.
type SavedGame struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Slug             string `json:"slug"`
	ImageURL         string `json:"imageUrl"`
	ImageID          string `json:"imageId,omitempty"`
	AddedAt          string `json:"addedAt"`
	ReleaseDate      string `json:"releaseDate,omitempty"`
	FirstReleaseDate *int64 `json:"firstReleaseDate,omitempty"`
}

// AddedTime parses AddedAt. Unparseable values report the zero time.
func (g SavedGame) AddedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, g.AddedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// Image returns the sized image URL when an image id is known, else ImageURL.
func (g SavedGame) Image(size ImageSize) string {
	if url := ImageURL(g.ImageID, size); url != "" {
		return url
	}
	return g.ImageURL
}

// SearchResult is a read-only projection of a catalog entry.
type SearchResult struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Slug             string   `json:"slug"`
	ImageID          string   `json:"imageId,omitempty"`
	ImageURL         string   `json:"imageUrl"`
	Summary          string   `json:"summary,omitempty"`
	Rating           float64  `json:"rating,omitempty"`
	ReleaseDate      string   `json:"releaseDate,omitempty"`
	FirstReleaseDate *int64   `json:"firstReleaseDate,omitempty"`
	Platforms        []string `json:"platforms,omitempty"`
	SimilarGameIDs   []string `json:"similarGameIds,omitempty"`
}

// ToSavedGame promotes a search result into a collection entry stamped at now.
func (r SearchResult) ToSavedGame(now time.Time) SavedGame {
	imageURL := r.ImageURL
	if imageURL == "" {
		imageURL = ImageURL(r.ImageID, ImageCoverBig)
	}
	var first *int64
	if r.FirstReleaseDate != nil {
		v := *r.FirstReleaseDate
		first = &v
	}
	return SavedGame{
		ID:               r.ID,
		Title:            r.Title,
		Slug:             r.Slug,
		ImageURL:         imageURL,
		ImageID:          r.ImageID,
		AddedAt:          now.UTC().Format(time.RFC3339Nano),
		ReleaseDate:      r.ReleaseDate,
		FirstReleaseDate: first,
	}
}

// DetailPath is the route of a catalog entry's detail page.
func DetailPath(slug string) string {
	return "/game/" + strings.TrimPrefix(slug, "/")
}
