package testutil

import (
	"context"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

// GoodProvider returns the provided results for both operations.
type GoodProvider struct {
	Results []domaingames.SearchResult
}

func (p GoodProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	return truncate(p.Results, limit), nil
}

func (p GoodProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	return truncate(p.Results, limit), nil
}

// ErrProvider always returns the provided error.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	return nil, p.Err
}

func (p ErrProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	return nil, p.Err
}

// UnavailableProvider returns ErrProviderUnavailable.
type UnavailableProvider struct{}

func (UnavailableProvider) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	return nil, providers.ErrProviderUnavailable
}

func (UnavailableProvider) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	return nil, providers.ErrProviderUnavailable
}

func truncate(in []domaingames.SearchResult, limit int) []domaingames.SearchResult {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}
