package strava

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	creds Credentials
	saves int
}

func (s *memoryStore) Load() (*Credentials, error) {
	c := s.creds
	return &c, nil
}

func (s *memoryStore) Save(c *Credentials) error {
	s.creds = *c
	s.saves++
	return nil
}

func fixedNow() time.Time {
	return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
}

func newTestSource(store TokenStore, tokenURL string) *StoreTokenSource {
	src := NewStoreTokenSource(store)
	src.TokenURL = tokenURL
	src.now = fixedNow
	return src
}

func TestTokenStillValid(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	store := &memoryStore{creds: Credentials{
		AccessToken:    "tok",
		RefreshToken:   "ref",
		TokenExpiresAt: fixedNow().Add(time.Hour).Unix(),
	}}
	src := newTestSource(store, srv.URL)

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", tok.AccessToken)
	require.Zero(t, calls, "valid token must not hit the token endpoint")
	require.Zero(t, store.saves)
}

func TestTokenExpiredRefreshesAndPersists(t *testing.T) {
	expiresAt := fixedNow().Add(6 * time.Hour).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "refresh_token", r.Form.Get("grant_type"))
		require.Equal(t, "ref-old", r.Form.Get("refresh_token"))
		require.Equal(t, "12345", r.Form.Get("client_id"))
		require.Equal(t, "shh", r.Form.Get("client_secret"))
		fmt.Fprintf(w, `{"access_token": "tok-new", "refresh_token": "ref-new", "expires_at": %d}`, expiresAt)
	}))
	defer srv.Close()

	store := &memoryStore{creds: Credentials{
		ClientID:       "12345",
		ClientSecret:   "shh",
		AccessToken:    "tok-old",
		RefreshToken:   "ref-old",
		TokenExpiresAt: fixedNow().Add(-time.Hour).Unix(),
	}}
	src := newTestSource(store, srv.URL)

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-new", tok.AccessToken)
	require.Equal(t, "ref-new", tok.RefreshToken)
	require.Equal(t, time.Unix(expiresAt, 0), tok.Expiry)

	require.Equal(t, 1, store.saves)
	require.Equal(t, "tok-new", store.creds.AccessToken)
	require.Equal(t, "ref-new", store.creds.RefreshToken)
	require.Equal(t, expiresAt, store.creds.TokenExpiresAt)
}

func TestTokenExpiringWithinMarginRefreshes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token": "tok-new", "expires_in": 21600}`)
	}))
	defer srv.Close()

	store := &memoryStore{creds: Credentials{
		AccessToken:    "tok-old",
		RefreshToken:   "ref-old",
		TokenExpiresAt: fixedNow().Add(30 * time.Second).Unix(),
	}}
	src := newTestSource(store, srv.URL)

	tok, err := src.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-new", tok.AccessToken)
}

func TestRefreshKeepsOldRefreshTokenWhenNotRotated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"access_token": "tok-new", "expires_in": 21600}`)
	}))
	defer srv.Close()

	store := &memoryStore{creds: Credentials{
		AccessToken:  "tok-old",
		RefreshToken: "ref-old",
	}}
	src := newTestSource(store, srv.URL)

	tok, err := src.ForceRefresh(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ref-old", tok.RefreshToken)
	require.Equal(t, "ref-old", store.creds.RefreshToken)
	require.Equal(t, fixedNow().Add(21600*time.Second).Unix(), store.creds.TokenExpiresAt)
}

func TestRefreshFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad refresh token", http.StatusBadRequest)
	}))
	defer srv.Close()

	store := &memoryStore{creds: Credentials{RefreshToken: "ref-old"}}
	src := newTestSource(store, srv.URL)

	_, err := src.ForceRefresh(context.Background())
	require.ErrorContains(t, err, "status 400")
	require.Zero(t, store.saves)
}

func TestTokenMissingRefreshToken(t *testing.T) {
	store := &memoryStore{creds: Credentials{AccessToken: "tok"}}
	src := newTestSource(store, "http://unused.invalid")

	_, err := src.Token(context.Background())
	require.ErrorContains(t, err, "missing refresh token")
}
