package cliconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)

	saved := &Config{
		ServerURL:    "https://api.shop.test",
		APIPrefix:    "/api/v2",
		TokenStorage: StorageKeyring,
		DraftDB:      "/tmp/drafts.db",
	}
	require.NoError(t, Save(path, saved))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, saved, loaded)
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(`{"serverUrl": "http://localhost:5084"}`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StorageFile, cfg.TokenStorage)
	assert.NotEmpty(t, cfg.DraftDB)
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("{nope"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestFindConfigFileSearchesUpwards(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0755))

	cfgPath := filepath.Join(root, ConfigFileName)
	require.NoError(t, Save(cfgPath, DefaultConfig()))

	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalDir) })

	require.NoError(t, os.Chdir(nested))

	found, err := FindConfigFile()
	require.NoError(t, err)

	// Resolve symlinks before comparing; macOS tempdirs live under /var
	wantDir, err := filepath.EvalSymlinks(filepath.Dir(cfgPath))
	require.NoError(t, err)
	gotDir, err := filepath.EvalSymlinks(filepath.Dir(found))
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, ConfigFileName, filepath.Base(found))
}

func TestFindConfigFileMissing(t *testing.T) {
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.Chdir(originalDir) })

	require.NoError(t, os.Chdir(t.TempDir()))

	_, err = FindConfigFile()
	assert.Error(t, err)
}
