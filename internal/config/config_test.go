package config_test

import (
	"testing"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	// Check server defaults
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	// Check match defaults
	assert.Equal(t, "Cricket World Cup 2025", cfg.Match.Name)
	assert.Equal(t, "Melbourne Cricket Ground", cfg.Match.Venue)
	assert.Equal(t, "T20", cfg.Match.Type)
	assert.Equal(t, "Team 1", cfg.Match.BattingTeam)
	assert.Equal(t, "Team 2", cfg.Match.BowlingTeam)

	// Check Redis defaults
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6380", cfg.Redis.URL)
	assert.Empty(t, cfg.Redis.Password)

	// Check stream defaults
	assert.Equal(t, "scoreboard.commands", cfg.Stream.CommandStream)
	assert.Equal(t, "scoreboard.updates", cfg.Stream.UpdateStream)
	assert.Equal(t, "scoreboard-broadcaster", cfg.Stream.ConsumerGroup)
	assert.Equal(t, "broadcaster-1", cfg.Stream.ConsumerID)
}

func TestLoadConfig_CustomValues(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000,https://overlay.example.com")
	t.Setenv("MATCH_NAME", "IPL Final")
	t.Setenv("MATCH_TYPE", "T10")
	t.Setenv("BATTING_TEAM", "Chennai")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("REDIS_URL", "redis.example.com:6379")
	t.Setenv("REDIS_PASSWORD", "secretpass")
	t.Setenv("COMMAND_STREAM", "ipl.commands")
	t.Setenv("CONSUMER_ID", "custom-id")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, []string{"http://localhost:3000", "https://overlay.example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "IPL Final", cfg.Match.Name)
	assert.Equal(t, "T10", cfg.Match.Type)
	assert.Equal(t, "Melbourne Cricket Ground", cfg.Match.Venue)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.example.com:6379", cfg.Redis.URL)
	assert.Equal(t, "secretpass", cfg.Redis.Password)
	assert.Equal(t, "ipl.commands", cfg.Stream.CommandStream)
	assert.Equal(t, "scoreboard.updates", cfg.Stream.UpdateStream)
	assert.Equal(t, "custom-id", cfg.Stream.ConsumerID)

	defaults := cfg.Match.MatchDefaults()
	assert.Equal(t, "IPL Final", defaults.MatchName)
	assert.Equal(t, "Chennai", defaults.BattingTeam)
	assert.Equal(t, "Team 2", defaults.BowlingTeam)
}

func TestLoadConfig_InvalidBool(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "sometimes")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
