// Package strava uploads converted activities to Strava. Credentials live
// in a local secrets file; the token source refreshes them as needed and
// persists rotated tokens back through the TokenStore.
package strava

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Credentials is the stored OAuth state for one Strava application.
type Credentials struct {
	ClientID       string `json:"client_id"`
	ClientSecret   string `json:"client_secret"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token"`
	TokenExpiresAt int64  `json:"token_expires_at"`
}

// TokenStore reads the current credentials and persists refreshed ones.
type TokenStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
}

// FileTokenStore keeps credentials under the "strava" key of a JSON secrets
// file. Other top-level keys in the file are preserved across saves.
type FileTokenStore struct {
	Path string

	extra map[string]json.RawMessage
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

func (s *FileTokenStore) Load() (*Credentials, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("reading secrets file: %w", err)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing secrets file %s: %w", s.Path, err)
	}
	raw, ok := doc["strava"]
	if !ok {
		return nil, fmt.Errorf("secrets file %s has no strava section", s.Path)
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, fmt.Errorf("parsing strava credentials: %w", err)
	}
	delete(doc, "strava")
	s.extra = doc
	return &creds, nil
}

// Save writes the credentials back atomically via a temp file and rename so
// a crash mid-write cannot truncate the secrets file.
func (s *FileTokenStore) Save(creds *Credentials) error {
	doc := make(map[string]json.RawMessage, len(s.extra)+1)
	for k, v := range s.extra {
		doc[k] = v
	}
	raw, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	doc["strava"] = raw

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(s.Path), ".secrets-*")
	if err != nil {
		return fmt.Errorf("creating temp secrets file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp secrets file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing secrets file: %w", err)
	}
	return nil
}
