package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	domaingames "github.com/preston-bernstein/gaming-haven/internal/domain/games"
	"github.com/preston-bernstein/gaming-haven/internal/providers"
)

// Config controls how the IGDB client reaches the upstream API.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// Client queries the IGDB games endpoint and maps entries to search results.
type Client struct {
	baseURL    string
	clientID   string
	httpClient httpDoer
	tokens     *tokenSource
}

// NewClient constructs an IGDB client with the provided configuration.
func NewClient(cfg Config) *Client {
	httpClient := resolveHTTPClient(cfg.HTTPClient)
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		clientID:   cfg.ClientID,
		httpClient: httpClient,
		tokens: &tokenSource{
			tokenURL:     normalizeBaseURL(cfg.TokenURL, defaultTokenURL),
			clientID:     cfg.ClientID,
			clientSecret: cfg.ClientSecret,
			httpClient:   httpClient,
			now:          time.Now,
		},
	}
}

// Name identifies the provider in logs and metrics.
func (c *Client) Name() string {
	return providerName
}

// Search returns games matching query, ranked by IGDB relevance.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]domaingames.SearchResult, error) {
	body := fmt.Sprintf(`search "%s"; fields %s; limit %d;`, escapeQuery(strings.TrimSpace(query)), gameFields, limit)
	return c.query(ctx, body)
}

// Popular returns the most-rated games that have cover art.
func (c *Client) Popular(ctx context.Context, limit int) ([]domaingames.SearchResult, error) {
	body := fmt.Sprintf(`fields %s; where total_rating_count > %d & cover != null; sort total_rating_count desc; limit %d;`,
		gameFields, popularMinRatings, limit)
	return c.query(ctx, body)
}

func (c *Client) query(ctx context.Context, body string) ([]domaingames.SearchResult, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/games", strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, &providers.RateLimitError{
			Provider:   providerName,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Message:    "igdb rate limited",
		}
	case http.StatusUnauthorized:
		c.tokens.invalidate()
		return nil, fmt.Errorf("igdb: unauthorized")
	default:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := fmt.Errorf("igdb: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, &providers.PermanentError{Provider: providerName, StatusCode: resp.StatusCode, Err: statusErr}
		}
		return nil, statusErr
	}

	var payload []gameResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("igdb: decode games: %w", err)
	}
	return mapGames(payload), nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
