package providers

import (
	"context"
	"testing"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/teststubs"
)

type anonymousProvider struct{}

func (anonymousProvider) Search(context.Context, string, int) ([]domaingames.SearchResult, error) {
	return nil, nil
}

func (anonymousProvider) Popular(context.Context, int) ([]domaingames.SearchResult, error) {
	return nil, nil
}

func TestCatalogProviderInterfaceImplemented(t *testing.T) {
	var _ CatalogProvider = (*teststubs.StubProvider)(nil)
	var _ CatalogProvider = anonymousProvider{}
}

func TestNameOf(t *testing.T) {
	if got := NameOf(&teststubs.StubProvider{}); got != "stub" {
		t.Fatalf("expected stub, got %s", got)
	}
	if got := NameOf(anonymousProvider{}); got != "catalog" {
		t.Fatalf("expected fallback name, got %s", got)
	}
}

func TestClampLimit(t *testing.T) {
	cases := []struct{ in, fallback, want int }{
		{0, 10, 10},
		{-5, 8, 8},
		{51, 10, 50},
		{3, 10, 3},
		{0, 0, 1},
		{0, 80, 50},
	}
	for _, tc := range cases {
		if got := ClampLimit(tc.in, tc.fallback); got != tc.want {
			t.Fatalf("ClampLimit(%d, %d) = %d, want %d", tc.in, tc.fallback, got, tc.want)
		}
	}
}
