package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  host: "0.0.0.0"
  port: 8080
firestore:
  project_id: "mentormatch-dev"
jwt:
  secret: "0123456789abcdef0123456789abcdef"
`

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		cfg, err := Load(writeConfigFile(t, validYAML))
		require.NoError(t, err)

		assert.Equal(t, "0.0.0.0:8080", cfg.GetServerAddress())
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)
		assert.Equal(t, 60, cfg.JWT.AccessTokenExpiry)
		assert.Equal(t, 60*24*7, cfg.JWT.RefreshTokenExpiry)
		assert.Equal(t, 14, cfg.Partnership.StaleRequestDays)
		assert.Equal(t, 7, cfg.Partnership.ReminderPendingDays)
		assert.NotEmpty(t, cfg.Scheduler.ExpireStaleRequests)
		assert.False(t, cfg.AuditEnabled())
	})

	t.Run("EnvironmentOverrides", func(t *testing.T) {
		t.Setenv("SERVER_PORT", "9090")
		t.Setenv("FIRESTORE_PROJECT_ID", "mentormatch-prod")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load(writeConfigFile(t, validYAML))
		require.NoError(t, err)

		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "mentormatch-prod", cfg.Firestore.ProjectID)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("MalformedYAML", func(t *testing.T) {
		_, err := Load(writeConfigFile(t, "server: [not a map"))
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.Firestore.ProjectID = "mentormatch-dev"
		cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
		return cfg
	}

	t.Run("ValidConfigPasses", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("RejectsBadPort", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("RequiresFirestoreProject", func(t *testing.T) {
		cfg := base()
		cfg.Firestore.ProjectID = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("RequiresLongJWTSecret", func(t *testing.T) {
		cfg := base()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("AuditDatabaseRequiresUserAndName", func(t *testing.T) {
		cfg := base()
		cfg.AuditDB.Host = "localhost"
		cfg.AuditDB.Port = 5432
		assert.Error(t, cfg.Validate())

		cfg.AuditDB.User = "audit"
		cfg.AuditDB.Database = "audit"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "disable", cfg.AuditDB.SSLMode)
		assert.True(t, cfg.AuditEnabled())
		assert.Equal(t, "postgres://audit:@localhost:5432/audit?sslmode=disable", cfg.GetAuditConnectionString())
	})
}
