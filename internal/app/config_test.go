package app

import (
	"bytes"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paintstock/paintstock/internal/storage"
)

func TestLoadConfigDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, storage.DriverFile, cfg.StorageConfig().Driver)
	require.Equal(t, "2006-01-02", cfg.ExportDateLayout)
	require.False(t, cfg.NeedsRedis())
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, dir, ".env", "STORE_DRIVER=redis\nREDIS_KEY_PREFIX=shop:\n")
	t.Setenv("REDIS_ADDR", "10.0.0.5:6379")

	cfg, err := LoadConfig()
	t.Cleanup(func() {
		unsetenv(t, "STORE_DRIVER")
		unsetenv(t, "REDIS_KEY_PREFIX")
	})
	require.NoError(t, err)
	require.True(t, cfg.NeedsRedis())
	require.Equal(t, storage.Config{
		Driver:      storage.DriverRedis,
		FilePath:    "data/paintstock.json",
		RedisAddr:   "10.0.0.5:6379",
		RedisPrefix: "shop:",
		PGDSN:       cfg.PGDSN,
	}, cfg.StorageConfig())
}

func TestConfigValidate(t *testing.T) {
	base := Config{StoreDriver: "memory", AuthTokenSecret: DevTokenSecret}
	require.NoError(t, base.Validate())

	prod := base
	prod.AppEnv = "production"
	require.Error(t, prod.Validate())
	prod.AuthTokenSecret = "s3cret-from-vault"
	require.NoError(t, prod.Validate())

	bad := base
	bad.StoreDriver = "sqlite"
	require.ErrorContains(t, bad.Validate(), "STORE_DRIVER")

	bad = base
	bad.RateLimitPerMinute = -1
	require.Error(t, bad.Validate())
}

func TestLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &Config{LogFormat: "json", LogLevel: "warn"})
	logger.Info("hidden")
	logger.Warn("shown", slog.String("code", "P1"))
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"msg":"shown"`)
	require.Contains(t, buf.String(), `"code":"P1"`)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { require.NoError(t, os.Chdir(prev)) })
}
