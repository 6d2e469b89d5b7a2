package providers

import (
	"context"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

// CatalogProvider queries an upstream game catalog and normalizes entries to SearchResult.
// Results are ordered as the upstream ranks them.
type CatalogProvider interface {
	Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error)
	Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error)
}

// Named is implemented by providers that report a name for logs and metrics.
type Named interface {
	Name() string
}

// NameOf returns p's name, or "catalog" when it does not report one.
func NameOf(p CatalogProvider) string {
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return "catalog"
}
