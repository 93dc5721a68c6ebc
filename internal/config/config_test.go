package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "admin@example.com", cfg.AdminEmail)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.False(t, cfg.AdminRequirePassword)
	assert.Equal(t, time.Duration(0), cfg.RateLimitApply)
}

func TestLoadFileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: 9090\nrate_limit_apply: 30s\nadmin_require_password: true\nallowed_origins: https://a.example, https://b.example\nmeilisearch_host: meili\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("PORT", "7070")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RateLimitApply)
	assert.True(t, cfg.AdminRequirePassword)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "http://meili:7700", cfg.MeiliSearchHost)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("RATE_LIMIT_REGISTER", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_REGISTER")

	t.Setenv("RATE_LIMIT_REGISTER", "1m")
	t.Setenv("BCRYPT_COST", "high")
	_, err = Load()
	assert.ErrorContains(t, err, "BCRYPT_COST")
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestPrettyLogs(t *testing.T) {
	assert.True(t, (&Config{AppEnv: "development"}).PrettyLogs())
	assert.False(t, (&Config{AppEnv: "production"}).PrettyLogs())
	assert.True(t, (&Config{AppEnv: "production", LogFormat: "console"}).PrettyLogs())
	assert.False(t, (&Config{AppEnv: "development", LogFormat: "json"}).PrettyLogs())
}
