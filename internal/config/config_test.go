package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 5.0, cfg.RateLimit)

	_, ok := cfg.Fuzzy()
	assert.False(t, ok)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "DB_DRIVER=sqlite\nDB_SOURCE=abr.db\nWORKERS=8\nFUZZY_CHAR=?\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "abr.db", cfg.DBSource)
	assert.Equal(t, 8, cfg.Workers)

	r, ok := cfg.Fuzzy()
	assert.True(t, ok)
	assert.Equal(t, '?', r)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("SERVER_ADDRESS=:9000\n"), 0o644))
	t.Setenv("SERVER_ADDRESS", ":9100")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.ServerAddress)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectError bool
	}{
		{name: "valid", cfg: Config{DBDriver: "postgres", Workers: 1}},
		{name: "unknown driver", cfg: Config{DBDriver: "mysql", Workers: 1}, expectError: true},
		{name: "no workers", cfg: Config{DBDriver: "sqlite"}, expectError: true},
		{name: "multi-rune wildcard", cfg: Config{DBDriver: "sqlite", Workers: 1, FuzzyChar: "??"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
