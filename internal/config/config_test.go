package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ALLOWED_DIRECTORIES", "/srv/data")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.ServerPort)
	require.Equal(t, []string{"/srv/data"}, cfg.AllowedDirectories)
	require.Equal(t, "./.pending_confirmations.json", cfg.ConfirmationFile)
	require.Equal(t, 60*time.Second, cfg.ConfirmationTTL)
	require.Equal(t, "./state/audit.db", cfg.AuditDBFile)
	require.Equal(t, []string{"*"}, cfg.CORSOrigins)
	require.Equal(t, 100, cfg.RateLimitRPM)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ALLOWED_DIRECTORIES", "/srv/data, /home/shared")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CONFIRMATION_TTL", "2m")
	t.Setenv("RATE_LIMIT_RPM", "250")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "9090", cfg.ServerPort)
	require.Equal(t, []string{"/srv/data", "/home/shared"}, cfg.AllowedDirectories)
	require.Equal(t, 2*time.Minute, cfg.ConfirmationTTL)
	require.Equal(t, 250, cfg.RateLimitRPM)
}

func TestLoadRequiresAllowedDirectories(t *testing.T) {
	t.Setenv("ALLOWED_DIRECTORIES", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "ALLOWED_DIRECTORIES")
}

func TestValidate(t *testing.T) {
	valid := &Config{
		ServerPort:         "8080",
		RequestTimeout:     time.Second,
		AllowedDirectories: []string{"/srv/data"},
		ConfirmationFile:   "pending.json",
		ConfirmationTTL:    time.Minute,
		AuditDBFile:        "audit.db",
	}
	require.NoError(t, valid.Validate())

	t.Run("rejects zero TTL", func(t *testing.T) {
		cfg := *valid
		cfg.ConfirmationTTL = 0
		require.Error(t, cfg.Validate())
	})

	t.Run("rejects empty confirmation file", func(t *testing.T) {
		cfg := *valid
		cfg.ConfirmationFile = " "
		require.Error(t, cfg.Validate())
	})
}
