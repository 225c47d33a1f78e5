package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Creates a temporary YAML config file in a temporary directory.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	err := os.WriteFile(configPath, []byte(content), 0o600)
	require.NoError(t, err, "Failed to write temporary config file")

	return configPath
}

func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()

	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Setenv(key, value) })
		}
	}
}

func TestLoadConfigFromPath(t *testing.T) {
	validYAML := `
env: "test"
http_server:
  address: ":8081"
database:
  PG_HOST: "dbhost"
  PG_PORT: "5433"
  PG_USER: "testuser"
  PG_PASSWORD: "testpassword"
  PG_DBNAME: "testdb"
  PG_SSLMODE: "disable"
  MAX_OPEN_CONNS: 10
  MAX_IDLE_CONNS: 5
  CONN_MAX_LIFETIME: "10m"
  CONN_MAX_IDLE_TIME: "2m"
redis:
  REDIS_HOST: "redishost"
  REDIS_PORT: "6380"
  REDIS_USER: "redisuser"
  REDIS_PASSWORD: "redispassword"
  REDIS_DB: 1
rateConfig:
  MAX_ATTEMPTS: 10
  WINDOW_SIZE: "30s"
security:
  JWT_KEY: "testjwtkey"
  JWT_EXPIRY_HOURS: 48
admin:
  ADMIN_USERNAME: "root"
  ADMIN_PASSWORD: "rootpass"
cache:
  default_ttl: "10m"
otel:
  SERVICE_NAME: "test-service"
  EXPORTER_ENDPOINT: "otel:4318"
  SAMPLER_RATIO: 0.5
stripe:
  STRIPE_API_KEY: "sk_test_123"
  STRIPE_CURRENCY: "eur"
sendgrid:
  API_KEY: "sg_test_123"
  FROM_EMAIL: "shop@example.com"
`

	t.Run("Success - All Sections Loaded", func(t *testing.T) {
		unsetEnv(t, "ENV", "PG_HOST", "REDIS_HOST", "JWT_KEY", "HTTP_ADDRESS")
		configPath := createTempConfigFile(t, validYAML)

		cfg, err := LoadConfigFromPath(configPath)

		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "test", cfg.Env)
		assert.Equal(t, ":8081", cfg.HTTPServer.Addr)
		assert.Equal(t, "dbhost", cfg.Database.Host)
		assert.Equal(t, 10, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10*time.Minute, cfg.Database.ConnMaxLifetime)
		assert.Equal(t, "redisuser", cfg.RedisConnect.Username)
		assert.Equal(t, int64(10), cfg.RateConfig.MaxAttempts)
		assert.Equal(t, 30*time.Second, cfg.RateConfig.WindowSize)
		assert.Equal(t, 48, cfg.Security.JWTExpiryHours)
		assert.Equal(t, "root", cfg.Admin.Username)
		assert.Equal(t, 10*time.Minute, cfg.Cache.DefaultTTL)
		assert.InDelta(t, 0.5, cfg.Otel.SamplerRatio, 0.0001)
		assert.Equal(t, "eur", cfg.Stripe.Currency)
		assert.Equal(t, "Online Shop", cfg.SendGrid.FromName)
	})

	t.Run("Success - Environment Overrides YAML", func(t *testing.T) {
		configPath := createTempConfigFile(t, validYAML)
		t.Setenv("PG_HOST", "envhost")

		cfg, err := LoadConfigFromPath(configPath)

		require.NoError(t, err)
		assert.Equal(t, "envhost", cfg.Database.Host)
	})

	t.Run("Failure - File Does Not Exist", func(t *testing.T) {
		cfg, err := LoadConfigFromPath(filepath.Join(t.TempDir(), "missing.yaml"))

		require.Error(t, err)
		assert.Nil(t, cfg)
		assert.Contains(t, err.Error(), "config file does not exist")
	})

	t.Run("Failure - Missing Required Field", func(t *testing.T) {
		unsetEnv(t, "ENV", "JWT_KEY", "PG_USER", "PG_PASSWORD", "PG_DBNAME")
		configPath := createTempConfigFile(t, `
http_server:
  address: ":8081"
`)

		cfg, err := LoadConfigFromPath(configPath)

		require.Error(t, err)
		assert.Nil(t, cfg)
	})
}

func TestGetDSN(t *testing.T) {
	t.Run("Database", func(t *testing.T) {
		db := Database{User: "u", Password: "p", Host: "h", Port: "5432", Name: "shop", SSLMode: "disable"}

		assert.Equal(t, "postgres://u:p@h:5432/shop?sslmode=disable", db.GetDSN())
	})

	t.Run("Redis Without Credentials", func(t *testing.T) {
		r := RedisConnect{Host: "h", Port: "6379", DB: 2}

		assert.Equal(t, "redis://h:6379/2", r.GetDSN())
	})

	t.Run("Redis With Credentials", func(t *testing.T) {
		r := RedisConnect{Host: "h", Port: "6379", Username: "u", Password: "p"}

		assert.Equal(t, "redis://u:p@h:6379/0", r.GetDSN())
	})
}
