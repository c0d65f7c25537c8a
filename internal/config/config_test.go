package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp keeps godotenv from picking up a developer's .env file.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)
	for _, k := range []string{"PORT", "DB_DRIVER", "KAFKA_BROKERS", "CONFIG_PATH", "HISTORY_CACHE_TTL", "CARRIER_POOL_SIZE"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.Equal(t, 2*time.Minute, cfg.HistoryCacheTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, DefaultEngineConfig(), cfg.Engine)
	assert.Equal(t, 30*24*time.Hour, cfg.Engine.RecentActivityWindow())
}

func TestLoadEnvAndYAML(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "engine.yaml")
	yml := "pool_size: 250\nrecent_activity_days: 14\nsearch_timeout: 5s\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CARRIER_POOL_SIZE", "50")
	t.Setenv("CARRIER_SEARCH_PARALLELISM", "4")
	t.Setenv("HISTORY_CACHE_TTL", "45s")
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 45*time.Second, cfg.HistoryCacheTTL)
	assert.Equal(t, 250, cfg.Engine.PoolSize, "yaml overrides env")
	assert.Equal(t, 4, cfg.Engine.Parallelism)
	assert.Equal(t, 25, cfg.Engine.ResultCap)
	assert.Equal(t, 14, cfg.Engine.RecentActivityDays)
	assert.Equal(t, 5*time.Second, cfg.Engine.SearchTimeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	chdirTemp(t)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("CARRIER_POOL_SIZE", "lots")
	_, err := Load()
	assert.ErrorContains(t, err, "CARRIER_POOL_SIZE")

	t.Setenv("CARRIER_POOL_SIZE", "-1")
	_, err = Load()
	assert.ErrorContains(t, err, "pool_size must be positive")

	t.Setenv("CARRIER_POOL_SIZE", "")
	t.Setenv("DB_DRIVER", "mysql")
	_, err = Load()
	assert.ErrorContains(t, err, "DB_DRIVER")
}
