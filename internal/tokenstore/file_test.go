package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "session.json"))
}

func TestNewTokensTTLs(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	remembered := New("a", "r", true, now)
	assert.Equal(t, now.Add(7*24*time.Hour), remembered.AccessExpiresAt)
	assert.Equal(t, now.Add(30*24*time.Hour), remembered.RefreshExpiresAt)

	session := New("a", "r", false, now)
	assert.Equal(t, now.Add(5*time.Hour), session.AccessExpiresAt)
	assert.Equal(t, now.Add(24*time.Hour), session.RefreshExpiresAt)
}

func TestFileStoreRoundTrip(t *testing.T) {
	s := tempStore(t)

	saved := New("access-1", "refresh-1", true, time.Now())
	require.NoError(t, s.Save(saved))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
	assert.True(t, loaded.RememberMe)
}

func TestFileStoreMissingFile(t *testing.T) {
	s := tempStore(t)
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestFileStoreCorruptFile(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, os.WriteFile(s.path, []byte("{not json"), 0600))

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "corrupt file should be removed")
}

func TestFileStoreExpiredAccessTokenIsBlanked(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(New("access-1", "refresh-1", false, time.Now())))

	// 6 hours later the 5h access token is stale but the 24h refresh lives
	s.now = func() time.Time { return time.Now().Add(6 * time.Hour) }

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded.AccessToken)
	assert.Equal(t, "refresh-1", loaded.RefreshToken)
}

func TestFileStoreExpiredRefreshTokenErasesRecord(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(New("access-1", "refresh-1", false, time.Now())))

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)

	_, statErr := os.Stat(s.path)
	assert.True(t, os.IsNotExist(statErr), "expired record should be removed")
}

func TestFileStorePermissions(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(New("access-1", "refresh-1", false, time.Now())))

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreClearIsIdempotent(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Clear())
	require.NoError(t, s.Save(New("a", "r", false, time.Now())))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestMemStoreRoundTrip(t *testing.T) {
	s := NewMemStore()

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)

	require.NoError(t, s.Save(New("access-1", "refresh-1", true, time.Now())))
	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "access-1", loaded.AccessToken)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}

func TestMemStoreExpiredRefreshErasesRecord(t *testing.T) {
	s := NewMemStore()
	require.NoError(t, s.Save(New("access-1", "refresh-1", false, time.Now())))

	s.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoTokens)
}
