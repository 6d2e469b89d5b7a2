package search

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

const (
	// MinQueryLength is the shortest trimmed query sent upstream.
	MinQueryLength      = 2
	DefaultLimit        = 10
	DefaultPopularLimit = 8
	MaxLimit            = providers.MaxLimit
)

// Searcher is what the controller and HTTP layer need from the catalog.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error)
	Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error)
}

// ClientConfig sets default result limits.
type ClientConfig struct {
	Limit        int
	PopularLimit int
}

// Client applies query and limit rules in front of a catalog provider.
type Client struct {
	provider     providers.CatalogProvider
	limit        int
	popularLimit int
	logger       *slog.Logger
}

// NewClient wraps provider. Non-positive limits use the defaults.
func NewClient(provider providers.CatalogProvider, cfg ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		provider:     provider,
		limit:        providers.ClampLimit(cfg.Limit, DefaultLimit),
		popularLimit: providers.ClampLimit(cfg.PopularLimit, DefaultPopularLimit),
		logger:       logger,
	}
}

// Search returns matches for query. Queries shorter than MinQueryLength after trimming
// return an empty result without reaching the provider.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if utf8.RuneCountInString(trimmed) < MinQueryLength {
		return []domaingames.SearchResult{}, nil
	}
	limit = providers.ClampLimit(limit, c.limit)

	results, err := c.provider.Search(ctx, trimmed, limit)
	if err != nil {
		return nil, c.classify(ctx, "search", err)
	}
	logging.Debug(logging.FromContext(ctx, c.logger), "catalog search", logging.FieldQuery, trimmed, logging.FieldCount, len(results))
	return nonNil(results), nil
}

// Popular returns the suggestion list shown for an empty query.
func (c *Client) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	limit = providers.ClampLimit(limit, c.popularLimit)

	results, err := c.provider.Popular(ctx, limit)
	if err != nil {
		return nil, c.classify(ctx, "popular", err)
	}
	return nonNil(results), nil
}

// classify makes every upstream failure match providers.ErrCatalogUnavailable. Context
// errors pass through only when ctx itself is done.
func (c *Client) classify(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		return err
	}
	if errors.Is(err, providers.ErrCatalogUnavailable) {
		return err
	}
	logging.Warn(logging.FromContext(ctx, c.logger), "catalog call failed", "op", op, "err", err)
	return &providers.CatalogUnavailableError{
		Provider:  providers.NameOf(c.provider),
		Operation: op,
		Attempts:  1,
		Err:       err,
	}
}

func nonNil(in []domaingames.SearchResult) []domaingames.SearchResult {
	if in == nil {
		return []domaingames.SearchResult{}
	}
	return in
}
