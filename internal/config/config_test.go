package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/geodist/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoad_Defaults(t *testing.T) {
	cfg := config.MustLoad()

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.Debug())
	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, 9090, cfg.MonitoringPort)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, 100, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "Too many requests from this IP, please try again after a minute.", cfg.RateLimit.Message)
	assert.Equal(t, "memory", cfg.RateLimit.Store)
	assert.False(t, cfg.RateLimit.TrustXFF)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "geodist:ratelimit", cfg.Redis.Prefix)
}

func TestMustLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_ENV", "local")
	t.Setenv("PORT", "8080")
	t.Setenv("MONITORING_PORT", "8081")
	t.Setenv("RATE_LIMIT_WINDOW_MS", "1500")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_MESSAGE", "slow down")
	t.Setenv("RATE_LIMIT_STORE", "Redis")
	t.Setenv("RATE_LIMIT_KEY_HEADER", "X-Api-Key")
	t.Setenv("RATE_LIMIT_TRUST_XFF", "true")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_PASSWORD", "secret")
	t.Setenv("REDIS_DB", "2")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.True(t, cfg.Debug())
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 8081, cfg.MonitoringPort)
	assert.Equal(t, 1500*time.Millisecond, cfg.RateLimit.Window)
	assert.Equal(t, 5, cfg.RateLimit.MaxRequests)
	assert.Equal(t, "slow down", cfg.RateLimit.Message)
	assert.Equal(t, "redis", cfg.RateLimit.Store)
	assert.Equal(t, "X-Api-Key", cfg.RateLimit.KeyHeader)
	assert.True(t, cfg.RateLimit.TrustXFF)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, "secret", cfg.Redis.Password)
	assert.Equal(t, 2, cfg.Redis.DB)
}

func TestMustLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "geodist.yaml")
	filet.File(t, path, `
app_env: development
port: 4000
rate_limit:
  window_ms: 30000
  max_requests: 10
  store: token
redis:
  prefix: "geo:limits"
`)
	t.Setenv("GEODIST_CONFIG", path)
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "20")

	cfg := config.MustLoad()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 4000, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, 20, cfg.RateLimit.MaxRequests, "environment overrides the file")
	assert.Equal(t, "token", cfg.RateLimit.Store)
	assert.Equal(t, "geo:limits", cfg.Redis.Prefix)
}

func TestMustLoad_MissingFile(t *testing.T) {
	t.Setenv("GEODIST_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	assert.PanicsWithValue(t, "failed to read configuration file", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for api server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_MonitoringPortError(t *testing.T) {
	t.Setenv("MONITORING_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_WindowError(t *testing.T) {
	for _, value := range []string{"error_value", "0", "-5"} {
		t.Setenv("RATE_LIMIT_WINDOW_MS", value)

		assert.PanicsWithValue(t,
			"failed to parse rate limit window from configuration, must be a positive integer",
			func() { config.MustLoad() })
	}
}

func TestMustLoad_MaxRequestsError(t *testing.T) {
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "0")

	assert.PanicsWithValue(t,
		"failed to parse rate limit max requests from configuration, must be a positive integer",
		func() { config.MustLoad() })
}

func TestMustLoad_TrustXFFError(t *testing.T) {
	t.Setenv("RATE_LIMIT_TRUST_XFF", "maybe")

	assert.PanicsWithValue(t,
		"failed to parse rate limit trust_xff from configuration, must be a boolean",
		func() { config.MustLoad() })
}

func TestMustLoad_RedisDBError(t *testing.T) {
	t.Setenv("REDIS_DB", "error_value")

	assert.PanicsWithValue(t,
		"failed to parse redis db from configuration, must be an integer types",
		func() { config.MustLoad() })
}
