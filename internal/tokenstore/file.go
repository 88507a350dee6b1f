package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileStore persists tokens as a JSON file with owner-only permissions.
// Used when the OS keychain is unavailable (CI, headless terminals).
type FileStore struct {
	path string
	now  func() time.Time
}

// NewFileStore creates a store writing to the given path
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path, now: time.Now}
}

// Save writes the token pair to disk
func (s *FileStore) Save(tokens Tokens) error {
	data, err := json.MarshalIndent(tokens, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Load reads the token pair, enforcing the persisted expiry metadata.
// An expired refresh token erases the file and reports ErrNoTokens.
func (s *FileStore) Load() (Tokens, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Tokens{}, ErrNoTokens
		}
		return Tokens{}, fmt.Errorf("failed to read token file: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		// Corrupt file: treat as absent rather than blocking restore
		_ = s.Clear()
		return Tokens{}, ErrNoTokens
	}

	tokens, gone := tokens.expired(s.now())
	if gone {
		_ = s.Clear()
		return Tokens{}, ErrNoTokens
	}
	return tokens, nil
}

// Clear removes the token file
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}
