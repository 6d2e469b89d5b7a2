package providers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/logging"
	"github.com/preston-bernstein/gaming-haven/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = time.Second
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a CatalogProvider with bounded retries and a fixed backoff.
type retryingProvider struct {
	inner       CatalogProvider
	logger      *slog.Logger
	recorder    *metrics.Recorder
	name        string
	maxAttempts int
	backoffFn   backoffFunc
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
// Exhausted retries surface as *CatalogUnavailableError.
func NewRetryingProvider(inner CatalogProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) CatalogProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = NameOf(inner)
	}
	return &retryingProvider{
		inner:       inner,
		logger:      logger,
		recorder:    recorder,
		name:        name,
		maxAttempts: maxAttempts,
		backoffFn: func(int) time.Duration {
			return backoff
		},
	}
}

func (r *retryingProvider) Name() string {
	return r.name
}

func (r *retryingProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	return r.do(ctx, "search", func(ctx context.Context) ([]domaingames.SearchResult, error) {
		return r.inner.Search(ctx, query, limit)
	})
}

func (r *retryingProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	return r.do(ctx, "popular", func(ctx context.Context) ([]domaingames.SearchResult, error) {
		return r.inner.Popular(ctx, limit)
	})
}

func (r *retryingProvider) do(ctx context.Context, op string, call func(context.Context) ([]domaingames.SearchResult, error)) ([]domaingames.SearchResult, error) {
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		results, err := call(ctx)
		r.recorder.RecordProviderAttempt(r.name, time.Since(start), err)
		if err == nil {
			return results, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		if IsPermanent(err) {
			r.logWarn(ctx, "provider fetch rejected", "op", op, "attempt", attempt, "err", err)
			return nil, &CatalogUnavailableError{Provider: r.name, Operation: op, Attempts: attempt, Err: err}
		}

		delay := r.backoffFn(attempt)
		if rlErr, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(r.name, rlErr.RetryAfter)
			if rlErr.RetryAfter > delay {
				delay = rlErr.RetryAfter
			}
		}

		if attempt == r.maxAttempts {
			break
		}

		r.logWarn(ctx, "provider fetch retry", "op", op, "attempt", attempt, "max_attempts", r.maxAttempts, "err", err)

		// backoff with context awareness
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	r.logWarn(ctx, "provider fetch failed", "op", op, "attempts", r.maxAttempts, "err", lastErr)
	return nil, &CatalogUnavailableError{Provider: r.name, Operation: op, Attempts: r.maxAttempts, Err: lastErr}
}

func (r *retryingProvider) logWarn(ctx context.Context, msg string, args ...any) {
	logWithProvider(ctx, logging.FromContext(ctx, r.logger), slog.LevelWarn, r.name, msg, args...)
}
