package config

import (
	"fmt"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/caarlos0/env/v11"
)

// ServerConfig holds server configuration
type ServerConfig struct {
	Addr        string   `env:"SERVER_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*" envSeparator:","`
}

// MatchConfig seeds the scoreboard shown before the first command
type MatchConfig struct {
	Name        string `env:"MATCH_NAME" envDefault:"Cricket World Cup 2025"`
	Venue       string `env:"MATCH_VENUE" envDefault:"Melbourne Cricket Ground"`
	Type        string `env:"MATCH_TYPE" envDefault:"T20"`
	BattingTeam string `env:"BATTING_TEAM" envDefault:"Team 1"`
	BowlingTeam string `env:"BOWLING_TEAM" envDefault:"Team 2"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Enabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	URL      string `env:"REDIS_URL" envDefault:"localhost:6380"`
	Password string `env:"REDIS_PASSWORD"`
}

// StreamConfig names the Redis streams used when Redis is enabled
type StreamConfig struct {
	// Operator commands consumed by the processor
	CommandStream string `env:"COMMAND_STREAM" envDefault:"scoreboard.commands"`

	// Every scoreboard update is mirrored here
	UpdateStream string `env:"UPDATE_STREAM" envDefault:"scoreboard.updates"`

	// Consumer group and ID
	ConsumerGroup string `env:"CONSUMER_GROUP" envDefault:"scoreboard-broadcaster"`
	ConsumerID    string `env:"CONSUMER_ID" envDefault:"broadcaster-1"`
}

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Match  MatchConfig
	Redis  RedisConfig
	Stream StreamConfig
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// MatchDefaults converts the match settings into initial scoreboard descriptors
func (mc MatchConfig) MatchDefaults() state.MatchDefaults {
	return state.MatchDefaults{
		MatchName:   mc.Name,
		MatchVenue:  mc.Venue,
		MatchType:   mc.Type,
		BattingTeam: mc.BattingTeam,
		BowlingTeam: mc.BowlingTeam,
	}
}
