package config

import "time"

// Config holds all configuration for the application.
type Config struct {
	DBName    string
	Port      string
	JWTSecret string
	TokenTTL  time.Duration
	Turso     TursoConfig
	Slack     SlackConfig
	ProjectID string
	RedisURL  string
	Timezone  string

	LeaderboardCacheTTL  time.Duration
	SnapshotCron         string
	RecomputeCron        string
	TrendDays            int
	SlotCapacity         int
	RecomputeConcurrency int
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
}

type SlackConfig struct {
	Token     string
	ChannelID string
	// SigningSecret verifies slash command requests. Commands are
	// disabled when it is empty.
	SigningSecret string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}
