// Package cliconfig loads the mars4.json configuration file used by the
// CLI. The file is searched for in the current directory and upwards so a
// shop can keep one config at the repo or home directory root.
package cliconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const ConfigFileName = "mars4.json"

// Token storage backends
const (
	StorageFile    = "file"
	StorageKeyring = "keyring"
)

// Config represents the CLI configuration file
type Config struct {
	ServerURL    string `json:"serverUrl"`
	APIPrefix    string `json:"apiPrefix,omitempty"`
	TokenStorage string `json:"tokenStorage,omitempty"` // file or keyring
	DraftDB      string `json:"draftDb,omitempty"`      // held-cart database path
}

// DefaultConfig returns a configuration pointing at a local backend
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    "http://localhost:5084",
		APIPrefix:    "/api/v1",
		TokenStorage: StorageFile,
	}
}

// FindConfigFile searches for mars4.json in the current directory and
// parent directories.
func FindConfigFile() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}

	dir := currentDir
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("mars4.json not found in %s or any parent directory", currentDir)
}

// Load reads the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadFromCurrentDir loads config from the current directory or parents
func LoadFromCurrentDir() (*Config, error) {
	configPath, err := FindConfigFile()
	if err != nil {
		return nil, err
	}
	return Load(configPath)
}

// Save writes the configuration to a file
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.APIPrefix == "" {
		c.APIPrefix = "/api/v1"
	}
	if c.TokenStorage == "" {
		c.TokenStorage = StorageFile
	}
	if c.DraftDB == "" {
		c.DraftDB = defaultDraftDBPath()
	}
}

// DraftDBPath returns the held-cart database path, creating its directory
func (c *Config) DraftDBPath() (string, error) {
	path := c.DraftDB
	if path == "" {
		path = defaultDraftDBPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return "", fmt.Errorf("failed to create draft database directory: %w", err)
	}
	return path, nil
}

// TokenFilePath returns where the file token store keeps its tokens
func TokenFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mars4", "session.json")
	}
	return filepath.Join(home, ".mars4", "session.json")
}

func defaultDraftDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".mars4", "drafts.db")
	}
	return filepath.Join(home, ".mars4", "drafts.db")
}
