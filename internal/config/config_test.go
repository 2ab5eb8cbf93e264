package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:3000", cfg.Host)
	assert.Equal(t, ":8181", cfg.Listen)
	assert.Equal(t, "@every 5m", cfg.Refresh.Schedule)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file:calpane.db", cfg.Database.DSN)
	assert.Equal(t, "google_token.json", cfg.Google.TokenFile)
}

func TestLoad_YamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	content := `
host: https://dashboard.example.org
listen: ":9000"
card:
  title: Family
  calendars:
    - calendar.family
  persons:
    - name: Alice
      calendars:
        - calendar.alice
      color: "#ff0000"
db:
  driver: postgres
  dsn: postgres://localhost/calpane
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://dashboard.example.org", cfg.Host)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "Family", cfg.Card.Title)
	assert.Equal(t, []string{"calendar.family"}, cfg.Card.Calendars)
	require.Len(t, cfg.Card.Persons, 1)
	assert.Equal(t, "Alice", cfg.Card.Persons[0].Name)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: \":9000\"\n"), 0644))

	t.Setenv("CALPANE_LISTEN", ":7777")
	t.Setenv("CALPANE_DB_DRIVER", "postgres")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Listen)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}
