package server

import (
	"strings"

	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

// normalizeProviderName returns a lower-cased provider name, deriving it from the instance when not configured.
// Used across server wiring and the provider factory to keep naming consistent in metrics/logs.
func normalizeProviderName(raw string, provider providers.CatalogProvider) string {
	if name := strings.TrimSpace(raw); name != "" {
		return strings.ToLower(name)
	}
	if provider != nil {
		return strings.ToLower(providers.NameOf(provider))
	}
	return "provider"
}
