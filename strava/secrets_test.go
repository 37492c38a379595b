package strava

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const secretsFixture = `{
  "strava": {
    "client_id": "12345",
    "client_secret": "shh",
    "access_token": "tok-old",
    "refresh_token": "ref-old",
    "token_expires_at": 1718390000
  },
  "garmin": {
    "username": "someone"
  }
}`

func writeSecrets(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "secrets.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileTokenStoreLoad(t *testing.T) {
	store := NewFileTokenStore(writeSecrets(t, secretsFixture))

	creds, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, "12345", creds.ClientID)
	require.Equal(t, "shh", creds.ClientSecret)
	require.Equal(t, "tok-old", creds.AccessToken)
	require.Equal(t, "ref-old", creds.RefreshToken)
	require.EqualValues(t, 1718390000, creds.TokenExpiresAt)
}

func TestFileTokenStoreSavePreservesOtherSections(t *testing.T) {
	path := writeSecrets(t, secretsFixture)
	store := NewFileTokenStore(path)

	creds, err := store.Load()
	require.NoError(t, err)
	creds.AccessToken = "tok-new"
	creds.RefreshToken = "ref-new"
	creds.TokenExpiresAt = 1718400000
	require.NoError(t, store.Save(creds))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Contains(t, doc, "garmin")

	reloaded, err := NewFileTokenStore(path).Load()
	require.NoError(t, err)
	require.Equal(t, "tok-new", reloaded.AccessToken)
	require.Equal(t, "ref-new", reloaded.RefreshToken)
	require.EqualValues(t, 1718400000, reloaded.TokenExpiresAt)
}

func TestFileTokenStoreMissingSection(t *testing.T) {
	store := NewFileTokenStore(writeSecrets(t, `{"garmin": {}}`))
	_, err := store.Load()
	require.ErrorContains(t, err, "no strava section")
}

func TestFileTokenStoreMissingFile(t *testing.T) {
	store := NewFileTokenStore(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.Load()
	require.Error(t, err)
}
