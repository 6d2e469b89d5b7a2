package server

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/preston-bernstein/gaming-haven/internal/config"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
	"github.com/preston-bernstein/gaming-haven/internal/providers/fixture"
	"github.com/preston-bernstein/gaming-haven/internal/providers/igdb"
)

const (
	providerFixture = "fixture"
	providerIGDB    = "igdb"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.CatalogProvider {
	switch cfg.Provider {
	case providerFixture, "":
		return fixture.New()
	case providerIGDB:
		if !cfg.IGDB.Configured() {
			logging.Warn(logger, "igdb credentials missing, falling back to fixture")
			return fixture.New()
		}
		return igdb.NewClient(igdb.Config{
			BaseURL:      cfg.IGDB.BaseURL,
			TokenURL:     cfg.IGDB.TokenURL,
			ClientID:     cfg.IGDB.ClientID,
			ClientSecret: cfg.IGDB.ClientSecret,
			HTTPClient: &http.Client{
				Timeout:   cfg.IGDB.Timeout,
				Transport: otelhttp.NewTransport(http.DefaultTransport),
			},
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String(logging.FieldProvider, cfg.Provider))
		return fixture.New()
	}
}
