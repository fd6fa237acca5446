package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var required = []string{"db_name", "port", "jwt_secret"}

// Load reads configuration from the environment, an optional .env file and
// an optional config.yaml. Environment variables win over the file. Missing
// required settings are fatal.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found, reading from environment variables")
	}
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	cfg, err := FromViper(v)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	return cfg
}

// FromViper builds a Config from v, reading its config file when one is set
// up and can be found.
func FromViper(v *viper.Viper) (Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		log.Info("Loaded config file", "path", v.ConfigFileUsed())
	}

	for _, key := range required {
		if v.GetString(key) == "" {
			return Config{}, fmt.Errorf("required setting %s is not set", strings.ToUpper(key))
		}
	}

	cfg := Config{
		DBName:    v.GetString("db_name"),
		Port:      v.GetString("port"),
		JWTSecret: v.GetString("jwt_secret"),
		TokenTTL:  v.GetDuration("token_ttl"),
		Turso: TursoConfig{
			PrimaryURL: v.GetString("turso_primary_url"),
			AuthToken:  v.GetString("turso_auth_token"),
		},
		Slack: SlackConfig{
			Token:         v.GetString("slack_bot_token"),
			ChannelID:     v.GetString("slack_channel_id"),
			SigningSecret: v.GetString("slack_signing_secret"),
		},
		ProjectID: v.GetString("gcp_project"),
		RedisURL:  v.GetString("redis_url"),
		Timezone:  v.GetString("timezone"),

		LeaderboardCacheTTL:  v.GetDuration("leaderboard_cache_ttl"),
		SnapshotCron:         v.GetString("snapshot_cron"),
		RecomputeCron:        v.GetString("recompute_cron"),
		TrendDays:            v.GetInt("trend_days"),
		SlotCapacity:         v.GetInt("slot_capacity"),
		RecomputeConcurrency: v.GetInt("recompute_concurrency"),
		CORSOrigins:          splitList(v.GetString("cors_origins")),
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("token_ttl", 7*24*time.Hour)
	v.SetDefault("timezone", "Europe/Helsinki")
	v.SetDefault("leaderboard_cache_ttl", time.Minute)
	v.SetDefault("snapshot_cron", "0 0 3 * * *")
	v.SetDefault("recompute_cron", "0 30 3 * * *")
	v.SetDefault("trend_days", 30)
	v.SetDefault("slot_capacity", 2)
	v.SetDefault("recompute_concurrency", 4)
	v.SetDefault("cors_origins", "*")

	// AutomaticEnv only sees keys viper already knows about.
	for _, key := range []string{
		"db_name", "port", "jwt_secret", "turso_primary_url", "turso_auth_token",
		"slack_bot_token", "slack_channel_id", "slack_signing_secret", "gcp_project", "redis_url",
	} {
		v.SetDefault(key, "")
	}
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Location is the time zone grounds, time slots and trends are expressed in.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
