package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "7")
}

func TestLoad_SQLite(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", "/tmp/kino-test.db")
	t.Setenv("SEARCH_PAGE_SIZE", "4")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "/tmp/kino-test.db", cfg.DBPath)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 4, cfg.Search.PageSize)
	assert.Equal(t, "auto", cfg.Search.Strategy)
	assert.Equal(t, 10, cfg.Search.CinemaLimit)
}

func TestLoad_MySQLRequiresConnectionVars(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER")
	assert.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_ReportsEveryMissingVar(t *testing.T) {
	for _, k := range []string{"APP_ENV", "APP_PORT", "JWT_SECRET", "ACCESS_TOKEN_TTL_MIN", "REFRESH_TOKEN_TTL_DAYS"} {
		t.Setenv(k, "")
	}
	t.Setenv("DB_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
	for _, k := range []string{"APP_ENV", "APP_PORT", "JWT_SECRET"} {
		assert.Contains(t, err.Error(), k)
	}
}

func TestLoad_InvalidInt(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "soon")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_TTL_MIN")
}

func TestLoad_UnknownDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(p, []byte("KINO_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("KINO_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(p, filepath.Join(dir, "missing.env")))
	assert.Equal(t, "from-file", os.Getenv("KINO_DOTENV_PROBE"))
}

func TestLoadRateLimitConfig_Scope(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "60")
	t.Setenv("RATE_LIMIT_AUTH_CAPACITY", "5")
	t.Setenv("RATE_LIMIT_AUTH_REFILL_INTERVAL", "12s")

	global := LoadRateLimitConfig("")
	auth := LoadRateLimitConfig("auth")

	assert.Equal(t, 60, global.Capacity)
	assert.Equal(t, "kino:rl", global.Prefix)
	assert.Equal(t, 5, auth.Capacity)
	assert.Equal(t, 12*time.Second, auth.RefillInterval)
	assert.Equal(t, "kino:rl:auth", auth.Prefix)
	assert.GreaterOrEqual(t, auth.TTL, 5*auth.RefillInterval)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "garbage")

	cfg := LoadCacheConfig()
	assert.True(t, cfg.Methods["GET"])
	assert.True(t, cfg.Methods["HEAD"])
	assert.False(t, cfg.Methods["POST"])
	assert.Equal(t, 30*time.Second, cfg.TTL)
	assert.Equal(t, "kino:cache", cfg.Prefix)
}
