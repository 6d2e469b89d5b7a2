package providers

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
)

const (
	defaultRatePerSecond = 4
	defaultRateBurst     = 4
)

// rateLimitedProvider wraps a CatalogProvider with a token bucket so calls stay within upstream quotas.
type rateLimitedProvider struct {
	next    CatalogProvider
	limiter *rate.Limiter
	logger  *slog.Logger
	name    string
}

// NewRateLimitedProvider returns a CatalogProvider allowing perSecond calls with an equal burst.
// Calls block until a token is available or ctx is done.
func NewRateLimitedProvider(next CatalogProvider, perSecond int, logger *slog.Logger) CatalogProvider {
	burst := perSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
		burst = defaultRateBurst
	}
	return &rateLimitedProvider{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:  logger,
		name:    NameOf(next),
	}
}

func (p *rateLimitedProvider) Name() string {
	return p.name
}

func (p *rateLimitedProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Search(ctx, query, limit)
}

func (p *rateLimitedProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	if err := p.wait(ctx); err != nil {
		return nil, err
	}
	return p.next.Popular(ctx, limit)
}

func (p *rateLimitedProvider) wait(ctx context.Context) error {
	if p == nil || p.next == nil {
		return ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.name, "rate-limited fetch canceled", "err", err)
		return err
	}
	return nil
}
