package fixture

import (
	"context"
	"slices"
	"strings"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

// Provider serves a static catalog useful for local development and tests.
type Provider struct {
	catalog []domaingames.SearchResult
}

// New creates a fixture provider over the built-in catalog.
func New() *Provider {
	return &Provider{catalog: defaultCatalog()}
}

// NewWithCatalog creates a fixture provider over a caller-supplied catalog.
func NewWithCatalog(catalog []domaingames.SearchResult) *Provider {
	return &Provider{catalog: slices.Clone(catalog)}
}

// Name identifies the provider in logs and metrics.
func (p *Provider) Name() string {
	return "fixture"
}

// Search returns catalog entries whose title contains query, case-insensitively, in catalog order.
func (p *Provider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	_ = ctx
	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]domaingames.SearchResult, 0)
	for _, g := range p.catalog {
		if needle == "" || strings.Contains(strings.ToLower(g.Title), needle) || strings.Contains(g.Slug, needle) {
			out = append(out, g)
		}
	}
	return truncate(out, limit), nil
}

// Popular returns the catalog ordered by rating, highest first.
func (p *Provider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	_ = ctx
	out := slices.Clone(p.catalog)
	slices.SortStableFunc(out, func(a, b domaingames.SearchResult) int {
		switch {
		case a.Rating > b.Rating:
			return -1
		case a.Rating < b.Rating:
			return 1
		}
		return 0
	})
	return truncate(out, limit), nil
}

func truncate(in []domaingames.SearchResult, limit int) []domaingames.SearchResult {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

func release(unix int64) *int64 {
	return &unix
}

func entry(id, title, slug, imageID, date string, unix int64, rating float64, platforms ...string) domaingames.SearchResult {
	return domaingames.SearchResult{
		ID:               id,
		Title:            title,
		Slug:             slug,
		ImageID:          imageID,
		ImageURL:         domaingames.ImageURL(imageID, domaingames.ImageCoverBig),
		Rating:           rating,
		ReleaseDate:      date,
		FirstReleaseDate: release(unix),
		Platforms:        platforms,
	}
}

func defaultCatalog() []domaingames.SearchResult {
	return []domaingames.SearchResult{
		entry("1942", "The Witcher 3: Wild Hunt", "the-witcher-3-wild-hunt", "co1wyy", "May 19, 2015", 1431993600, 92.4, "PC", "PlayStation 4", "Xbox One"),
		entry("7346", "The Legend of Zelda: Breath of the Wild", "the-legend-of-zelda-breath-of-the-wild", "co3p2d", "Mar 3, 2017", 1488499200, 93.1, "Nintendo Switch", "Wii U"),
		entry("119133", "Elden Ring", "elden-ring", "co4jni", "Feb 25, 2022", 1645747200, 94.0, "PC", "PlayStation 5", "Xbox Series X|S"),
		entry("1020", "Grand Theft Auto V", "grand-theft-auto-v", "co2lbd", "Sep 17, 2013", 1379376000, 89.7, "PC", "PlayStation 3", "Xbox 360"),
		entry("472", "The Elder Scrolls V: Skyrim", "the-elder-scrolls-v-skyrim", "co1tnw", "Nov 11, 2011", 1320969600, 88.2, "PC", "PlayStation 3", "Xbox 360"),
		entry("1877", "Cyberpunk 2077", "cyberpunk-2077", "co2mjs", "Dec 10, 2020", 1607558400, 79.6, "PC", "PlayStation 4", "Xbox One"),
		entry("26192", "Halo Infinite", "halo-infinite", "co2dto", "Dec 8, 2021", 1638921600, 80.3, "PC", "Xbox Series X|S"),
		entry("740", "Halo: Combat Evolved", "halo-combat-evolved", "co2r2r", "Nov 15, 2001", 1005782400, 87.9, "Xbox", "PC"),
		entry("1009", "The Last of Us", "the-last-of-us", "co1r7f", "Jun 14, 2013", 1371168000, 93.7, "PlayStation 3"),
		entry("113", "Hades", "hades--1", "co39vc", "Sep 17, 2020", 1600300800, 92.9, "PC", "Nintendo Switch"),
		entry("1025", "Zelda II: The Adventure of Link", "zelda-ii-the-adventure-of-link", "co1uje", "Jan 14, 1987", 537580800, 70.2, "NES"),
		entry("26758", "Super Mario Odyssey", "super-mario-odyssey", "co1mxf", "Oct 27, 2017", 1509062400, 91.5, "Nintendo Switch"),
	}
}
