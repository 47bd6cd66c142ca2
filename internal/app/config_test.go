package app

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata"))
	require.NoError(t, err)

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.example.com", cfg.Database.Postgres.Host)
	require.Equal(t, 5433, cfg.Database.Postgres.Port)
	require.Equal(t, "jobboard", cfg.Database.Postgres.Database)

	require.Equal(t, "jwt-secret", cfg.Auth.JWT.Secret)
	require.Equal(t, "jobboard", cfg.Auth.JWT.Issuer)
	require.Equal(t, 30*time.Minute, cfg.Auth.JWT.TTL)

	require.Equal(t, 30, cfg.Notifications.RetentionDays)
	require.Equal(t, "@hourly", cfg.Notifications.CleanupSchedule)

	require.NoError(t, cfg.Validate())

	dbCfg := cfg.DatabaseConfig()
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db.example.com", dbCfg.Host)
	require.Equal(t, "jobboard", dbCfg.Name)
	require.Equal(t, "s3cret", dbCfg.Password)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/jobboard.sqlite", cfg.Database.Path)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.Equal(t, 90, cfg.Notifications.RetentionDays)
	require.Equal(t, "@daily", cfg.Notifications.CleanupSchedule)

	// A missing JWT secret must block start-up.
	require.Error(t, cfg.Validate())
}

func TestJWTServiceConfigConversion(t *testing.T) {
	cfg := AuthConfig{JWT: JWTSettings{Secret: "  padded  ", Issuer: " jobboard ", TTL: time.Hour}}
	converted := cfg.JWTServiceConfig()
	require.Equal(t, "padded", converted.Secret)
	require.Equal(t, "jobboard", converted.Issuer)
	require.Equal(t, time.Hour, converted.AccessTokenTTL)
}
