package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(t *testing.T, cfg *Config)
	}{
		{
			name:    "load default configuration",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "0.0.0.0", cfg.ServerHost)
				assert.Equal(t, 8080, cfg.ServerPort)
				assert.Equal(t, "postgres", cfg.DBDriver)
				assert.Equal(t, 5*time.Minute, cfg.DBConnMaxLifetime)
				assert.Equal(t, "info", cfg.LogLevel)
				assert.Equal(t, 14400*time.Second, cfg.AuthTokenExpiration)
				assert.Equal(t, DefaultCCEncryptionKey, cfg.CCEncryptionKey)
				assert.True(t, cfg.UsesDefaultCCEncryptionKey())
				assert.Equal(t, "xor", cfg.CCCipherAlgorithm)
				assert.Equal(t, 3, cfg.GateMaxAttempts)
				assert.Equal(t, 5*time.Minute, cfg.GateLockoutDuration)
				assert.Equal(t, 30*time.Minute, cfg.GateSessionWindow)
				assert.False(t, cfg.AuditFailClosed)
				assert.Equal(t, "mail_api_key", cfg.MailCredentialSetting)
				assert.Equal(t, 10*time.Second, cfg.MailTimeout)
				assert.Equal(t, "cardauth", cfg.MetricsNamespace)
			},
		},
		{
			name: "load custom database configuration",
			envVars: map[string]string{
				"DB_DRIVER":                    "mysql",
				"DB_CONNECTION_STRING":         "user:password@tcp(localhost:3306)/testdb",
				"DB_MAX_OPEN_CONNECTIONS":      "50",
				"DB_MAX_IDLE_CONNECTIONS":      "10",
				"DB_CONN_MAX_LIFETIME_MINUTES": "10",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "mysql", cfg.DBDriver)
				assert.Equal(t, "user:password@tcp(localhost:3306)/testdb", cfg.DBConnectionString)
				assert.Equal(t, 50, cfg.DBMaxOpenConnections)
				assert.Equal(t, 10, cfg.DBMaxIdleConnections)
				assert.Equal(t, 10*time.Minute, cfg.DBConnMaxLifetime)
			},
		},
		{
			name: "load custom encryption and gate configuration",
			envVars: map[string]string{
				"CC_ENCRYPTION_KEY":             "prod-key",
				"CC_CIPHER_ALGORITHM":           "aes-gcm",
				"GATE_MAX_ATTEMPTS":             "5",
				"GATE_LOCKOUT_DURATION_MINUTES": "15",
				"GATE_SESSION_WINDOW_MINUTES":   "10",
				"REDIS_URL":                     "redis://localhost:6379/0",
				"AUDIT_FAIL_CLOSED":             "true",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.UsesDefaultCCEncryptionKey())
				assert.Equal(t, "aes-gcm", cfg.CCCipherAlgorithm)
				assert.Equal(t, 5, cfg.GateMaxAttempts)
				assert.Equal(t, 15*time.Minute, cfg.GateLockoutDuration)
				assert.Equal(t, 10*time.Minute, cfg.GateSessionWindow)
				assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
				assert.True(t, cfg.AuditFailClosed)
			},
		},
		{
			name: "load custom log level",
			envVars: map[string]string{
				"LOG_LEVEL": "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, "debug", cfg.GetGinMode())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			for key, value := range tt.envVars {
				err := os.Setenv(key, value)
				require.NoError(t, err)
			}

			cfg := Load()

			tt.validate(t, cfg)
		})
	}
}

func TestGetGinMode(t *testing.T) {
	for _, level := range []string{"info", "warn", "error", "unknown"} {
		cfg := &Config{LogLevel: level}
		assert.Equal(t, "release", cfg.GetGinMode())
	}
}
