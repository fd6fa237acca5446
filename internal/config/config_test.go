package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mauv0809/tampere-cricket/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_NAME", "cricket.db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
}

func TestFromViper_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "cricket.db", cfg.DBName)
	assert.Equal(t, time.Minute, cfg.LeaderboardCacheTTL)
	assert.Equal(t, "0 0 3 * * *", cfg.SnapshotCron)
	assert.Equal(t, 30, cfg.TrendDays)
	assert.Equal(t, 2, cfg.SlotCapacity)
	assert.Equal(t, 4, cfg.RecomputeConcurrency)
	assert.Empty(t, cfg.Turso.PrimaryURL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestFromViper_EnvOverridesFile(t *testing.T) {
	setRequired(t)
	t.Setenv("SLOT_CAPACITY", "3")
	t.Setenv("TIMEZONE", "UTC")

	dir := t.TempDir()
	yaml := "slot_capacity: 5\ntrend_days: 14\nleaderboard_cache_ttl: 30s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, "config.yaml"))
	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.SlotCapacity, "env wins over the file")
	assert.Equal(t, 14, cfg.TrendDays)
	assert.Equal(t, 30*time.Second, cfg.LeaderboardCacheTTL)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestFromViper_Required(t *testing.T) {
	t.Setenv("DB_NAME", "cricket.db")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "")

	_, err := config.FromViper(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
