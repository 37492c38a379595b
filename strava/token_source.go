package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultTokenURL is Strava's OAuth token endpoint.
const DefaultTokenURL = "https://www.strava.com/oauth/token"

// refreshMargin refreshes tokens expiring within the next minute so an
// upload never starts with a token about to lapse mid-request.
const refreshMargin = time.Minute

// Token is a usable access token with its refresh state.
type Token struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// TokenSource returns a valid token.
// It is safe for concurrent use by multiple goroutines.
type TokenSource interface {
	Token(context.Context) (*Token, error)
	ForceRefresh(context.Context) (*Token, error)
}

// StoreTokenSource reads credentials from a TokenStore and refreshes them
// through Strava's token endpoint when expired, persisting the result.
type StoreTokenSource struct {
	Store TokenStore

	// HTTPClient performs the refresh exchange. Nil means http.DefaultClient.
	HTTPClient *http.Client
	// TokenURL overrides the token endpoint, for tests. Empty means
	// DefaultTokenURL.
	TokenURL string

	mu  sync.Mutex
	now func() time.Time
}

func NewStoreTokenSource(store TokenStore) *StoreTokenSource {
	return &StoreTokenSource{Store: store, now: time.Now}
}

// Token returns the stored token, refreshing it first if it has expired or
// expires within the refresh margin.
func (s *StoreTokenSource) Token(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("strava: missing refresh token")
	}

	expiry := time.Unix(creds.TokenExpiresAt, 0)
	if creds.AccessToken == "" || s.clock().Add(refreshMargin).After(expiry) {
		return s.refresh(ctx, creds)
	}
	return &Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       expiry,
	}, nil
}

// ForceRefresh refreshes the token regardless of expiry.
func (s *StoreTokenSource) ForceRefresh(ctx context.Context) (*Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creds, err := s.Store.Load()
	if err != nil {
		return nil, err
	}
	if creds.RefreshToken == "" {
		return nil, fmt.Errorf("strava: missing refresh token")
	}
	return s.refresh(ctx, creds)
}

func (s *StoreTokenSource) refresh(ctx context.Context, creds *Credentials) (*Token, error) {
	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	data := url.Values{}
	data.Set("client_id", creds.ClientID)
	data.Set("client_secret", creds.ClientSecret)
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", creds.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("strava: refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("strava: refresh failed with status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
		ExpiresAt    int64  `json:"expires_at"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("strava: decoding refresh response: %w", err)
	}

	expiresAt := result.ExpiresAt
	if expiresAt == 0 {
		expiresAt = s.clock().Add(time.Duration(result.ExpiresIn) * time.Second).Unix()
	}
	// Keep the old refresh token if Strava did not rotate it.
	refreshToken := result.RefreshToken
	if refreshToken == "" {
		refreshToken = creds.RefreshToken
	}

	creds.AccessToken = result.AccessToken
	creds.RefreshToken = refreshToken
	creds.TokenExpiresAt = expiresAt
	if err := s.Store.Save(creds); err != nil {
		return nil, fmt.Errorf("strava: persisting refreshed tokens: %w", err)
	}

	return &Token{
		AccessToken:  result.AccessToken,
		RefreshToken: refreshToken,
		Expiry:       time.Unix(expiresAt, 0),
	}, nil
}

func (s *StoreTokenSource) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
