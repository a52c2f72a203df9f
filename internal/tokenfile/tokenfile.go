// Package tokenfile persists a WHOOP OAuth token on disk for the CLI.
//
// The file holds credentials, so it is written with 0600 permissions and
// replaced atomically via a temporary file in the same directory.
package tokenfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/arvarik/whoop-go/v2/whoop"
)

// ErrNotFound is returned by Load when no token has been saved yet.
var ErrNotFound = errors.New("tokenfile: no saved token")

// File is the on-disk record: the token as returned by WHOOP plus the time it was obtained.
type File struct {
	whoop.Token
	ObtainedAt time.Time `json:"obtained_at"`
}

// ExpiresAt estimates when the access token expires. ok is false when the
// token endpoint did not report expires_in.
func (f File) ExpiresAt() (t time.Time, ok bool) {
	if f.ExpiresIn == nil || f.ObtainedAt.IsZero() {
		return time.Time{}, false
	}
	return f.ObtainedAt.Add(time.Duration(*f.ExpiresIn) * time.Second), true
}

// DefaultPath is token.json inside the user's config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("tokenfile: locating config dir: %w", err)
	}
	return filepath.Join(dir, "whoop", "token.json"), nil
}

// Load reads the token saved at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tokenfile: reading %s: %w", path, err)
	}

	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("tokenfile: parsing %s: %w", path, err)
	}
	if f.AccessToken == "" {
		return nil, fmt.Errorf("tokenfile: %s has no access_token", path)
	}
	return &f, nil
}

// Save writes tok to path, stamped with now.
func Save(path string, tok whoop.Token, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("tokenfile: creating directory: %w", err)
	}

	data, err := json.MarshalIndent(File{Token: tok, ObtainedAt: now.UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("tokenfile: encoding token: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".token-*.json")
	if err != nil {
		return fmt.Errorf("tokenfile: creating temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tokenfile: setting permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tokenfile: writing token: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("tokenfile: writing token: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("tokenfile: replacing %s: %w", path, err)
	}
	return nil
}

// Remove deletes the saved token. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("tokenfile: removing %s: %w", path, err)
	}
	return nil
}
