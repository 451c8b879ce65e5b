package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[server]
http_port = 8081

[database]
host = "localhost"
user = "clinic"
password = "from-file"
dbname = "clinic"

[logs]
file = "logs/app.log"
level = "debug"

[metrics]
enabled = true

[payments]
webhook_secret = "file-secret"

[clinic]
name = "Test Clinic"
consultation_fee = 175000
advance_booking_days = 30
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, int64(175000), cfg.Clinic.ConsultationFee)
	assert.Equal(t, "host=localhost port=5432 user=clinic password=from-file dbname=clinic sslmode=disable", cfg.Database.DSN())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("PAYMENTS_WEBHOOK_SECRET", "env-secret")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "env-secret", cfg.Payments.WebhookSecret)
	assert.Equal(t, 9090, cfg.Server.HTTPPort)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("bad port env", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "eighty")
		_, err := Load(writeConfig(t, sample))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing database", func(t *testing.T) {
		_, err := Load(writeConfig(t, "[payments]\nwebhook_secret = \"x\"\n"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := Config{
			Database: DatabaseConfig{Host: "h", User: "u", DBName: "d"},
			Payments: PaymentsConfig{WebhookSecret: "s"},
			Logs:     LogsConfig{Level: "verbose"},
		}
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
		assert.Error(t, err)
	})
}
