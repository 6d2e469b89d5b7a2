package igdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSource fetches Twitch app access tokens with the client-credentials grant
// and caches them until shortly before expiry.
type tokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   httpDoer
	now          func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

func (s *tokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}

	form := url.Values{}
	form.Set("client_id", s.clientID)
	form.Set("client_secret", s.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("igdb: token request failed with status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("igdb: decode token: %w", err)
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("igdb: token response missing access_token")
	}

	s.token = payload.AccessToken
	s.expires = s.now().Add(time.Duration(payload.ExpiresIn)*time.Second - tokenExpiryMargin)
	return s.token, nil
}

// invalidate drops the cached token so the next call fetches a new one.
func (s *tokenSource) invalidate() {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
