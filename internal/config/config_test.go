package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimal = `
[server]
http_port = 8081

[database]
host = "localhost"
user = "bay"
password = "secret"
dbname = "bay_scheduler"

[business]
utc_offset_hours = -3
`

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DB_PASSWORD", "")

	cfg, err := Load(writeConfig(t, minimal))

	require.NoError(t, err)
	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, -3, cfg.Business.UTCOffsetHours)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t,
		"host=localhost port=5432 user=bay password=secret dbname=bay_scheduler sslmode=disable",
		cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, minimal)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_PASSWORD", "from-env")

	cfg, err := Load("does-not-exist.toml")

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	tests := []struct {
		name    string
		content string
	}{
		{"no database host", "[server]\nhttp_port = 8080\n[database]\ndbname = \"x\"\n"},
		{"offset out of range", strings.Replace(minimal, "utc_offset_hours = -3", "utc_offset_hours = 20", 1)},
		{"cache without addr", minimal + "\n[cache]\nenabled = true\n"},
		{"fcm without credentials", minimal + "\n[notifications.fcm]\nenabled = true\n"},
		{"rate limit without rps", minimal + "\n[rate_limit]\nenabled = true\nrps = 0.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
