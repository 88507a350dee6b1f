package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zalando/go-keyring"
)

const keyringService = "mars4-cli"

// KeyringStore persists tokens in the OS keychain/credential manager,
// keyed per server so multiple deployments can be logged in at once.
type KeyringStore struct {
	key string
	now func() time.Time
}

// NewKeyringStore creates a store scoped to the given server host
func NewKeyringStore(serverHost string) *KeyringStore {
	return &KeyringStore{key: fmt.Sprintf("session-%s", serverHost), now: time.Now}
}

// Save persists the token pair securely in the OS keychain
func (s *KeyringStore) Save(tokens Tokens) error {
	data, err := json.Marshal(tokens)
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if err := keyring.Set(keyringService, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to save tokens: %w", err)
	}
	return nil
}

// Load retrieves the token pair from the OS keychain
func (s *KeyringStore) Load() (Tokens, error) {
	raw, err := keyring.Get(keyringService, s.key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return Tokens{}, ErrNoTokens
		}
		return Tokens{}, fmt.Errorf("failed to load tokens: %w", err)
	}

	var tokens Tokens
	if err := json.Unmarshal([]byte(raw), &tokens); err != nil {
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

// Clear removes the token pair from the OS keychain
func (s *KeyringStore) Clear() error {
	if err := keyring.Delete(keyringService, s.key); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete tokens: %w", err)
	}
	return nil
}
