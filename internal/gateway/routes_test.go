package gateway

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchLongestPrefixWins(t *testing.T) {
	table := DefaultRouteTable()

	// /api/gallery is public but the upload endpoint under it is not
	assert.False(t, table.Match("/api/gallery").RequiresAuth)
	assert.False(t, table.Match("/api/gallery/42").RequiresAuth)
	assert.True(t, table.Match("/api/gallery/upload").RequiresAuth)
}

func TestMatchAdminRoutesRequireRole(t *testing.T) {
	table := DefaultRouteTable()

	rule := table.Match("/api/admin/users/3")
	assert.True(t, rule.RequiresAuth)
	assert.Equal(t, "admin", rule.Role)

	rule = table.Match("/api/products")
	assert.True(t, rule.RequiresAuth)
	assert.Empty(t, rule.Role)
}

func TestMatchUnlistedPathFailsClosed(t *testing.T) {
	table := DefaultRouteTable()

	rule := table.Match("/api/secret-new-endpoint")
	assert.True(t, rule.RequiresAuth, "unknown paths must require auth")
	assert.Empty(t, rule.Role)
}

func TestLoadRouteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
routes:
  - path: /api/reports/
    requiresAuth: true
    role: admin
  - path: /api/public/
    requiresAuth: false
`), 0644))

	table, err := LoadRouteTable(path)
	require.NoError(t, err)
	require.Len(t, table.Routes, 2)

	rule := table.Match("/api/reports/weekly")
	assert.True(t, rule.RequiresAuth)
	assert.Equal(t, "admin", rule.Role)

	assert.False(t, table.Match("/api/public/banner").RequiresAuth)
}

func TestLoadRouteTableRejectsInvalidRules(t *testing.T) {
	cases := map[string]string{
		"missing slash": "routes:\n  - path: api/reports\n",
		"bad role":      "routes:\n  - path: /api/reports\n    role: superuser\n",
	}

	for name, yaml := range cases {
		path := filepath.Join(t.TempDir(), "routes.yaml")
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

		_, err := LoadRouteTable(path)
		assert.Error(t, err, name)
	}
}

func TestLoadRouteTableMissingFile(t *testing.T) {
	_, err := LoadRouteTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
