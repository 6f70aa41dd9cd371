package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the configuration settings for the distance service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port of the public API server.
// - MonitoringPort: The port of the health and metrics server.
// - RateLimit: Admission control settings of the distance endpoint.
// - Redis: Connection settings used by the redis rate limit store.
type Config struct {
	Env            string          // Env is the current environment: local, development, production.
	Port           int             // Port is the public API server port.
	MonitoringPort int             // MonitoringPort serves /healthz and /metrics.
	RateLimit      RateLimitConfig // RateLimit holds the limiter configuration.
	Redis          RedisConfig     // Redis holds the redis connection configuration.
}

// RateLimitConfig configures the limiter in front of the distance endpoint.
type RateLimitConfig struct {
	Window      time.Duration // Window is the length of a counting window.
	MaxRequests int           // MaxRequests is the number of requests admitted per client and window.
	Message     string        // Message is returned with 429 responses.
	Store       string        // Store is one of memory, redis, token.
	KeyHeader   string        // KeyHeader identifies clients by a header instead of their address.
	TrustXFF    bool          // TrustXFF identifies clients by the first X-Forwarded-For entry.
}

// RedisConfig struct holds the configuration details for connecting to Redis.
type RedisConfig struct {
	Addr     string // Addr is the redis server address.
	Password string // Password is the redis password.
	DB       int    // DB is the redis logical database.
	Prefix   string // Prefix is prepended to every rate limit key.
}

// Debug reports whether internal details may be exposed in error responses.
func (c *Config) Debug() bool {
	return c.Env == "local" || c.Env == "development"
}

// MustLoad reads the configuration from the environment, an optional .env file and
// the optional YAML file named by GEODIST_CONFIG. Environment variables win over the file.
func MustLoad() *Config {
	_ = godotenv.Load()

	vpr := viper.New()
	setDefaults(vpr)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	if path := os.Getenv("GEODIST_CONFIG"); path != "" {
		vpr.SetConfigFile(path)
		if err := vpr.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	port, err := strconv.Atoi(vpr.GetString("port"))
	if err != nil {
		panic("failed to parse port for api server from configuration")
	}

	monitoringPort, err := strconv.Atoi(vpr.GetString("monitoring_port"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	windowMs, err := strconv.Atoi(vpr.GetString("rate_limit.window_ms"))
	if err != nil || windowMs <= 0 {
		panic("failed to parse rate limit window from configuration, must be a positive integer")
	}

	maxRequests, err := strconv.Atoi(vpr.GetString("rate_limit.max_requests"))
	if err != nil || maxRequests <= 0 {
		panic("failed to parse rate limit max requests from configuration, must be a positive integer")
	}

	trustXFF, err := strconv.ParseBool(vpr.GetString("rate_limit.trust_xff"))
	if err != nil {
		panic("failed to parse rate limit trust_xff from configuration, must be a boolean")
	}

	redisDB, err := strconv.Atoi(vpr.GetString("redis.db"))
	if err != nil {
		panic("failed to parse redis db from configuration, must be an integer types")
	}

	return &Config{
		Env:            vpr.GetString("app_env"),
		Port:           port,
		MonitoringPort: monitoringPort,
		RateLimit: RateLimitConfig{
			Window:      time.Duration(windowMs) * time.Millisecond,
			MaxRequests: maxRequests,
			Message:     vpr.GetString("rate_limit.message"),
			Store:       strings.ToLower(vpr.GetString("rate_limit.store")),
			KeyHeader:   vpr.GetString("rate_limit.key_header"),
			TrustXFF:    trustXFF,
		},
		Redis: RedisConfig{
			Addr:     vpr.GetString("redis.addr"),
			Password: vpr.GetString("redis.password"),
			DB:       redisDB,
			Prefix:   vpr.GetString("redis.prefix"),
		},
	}
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("app_env", "production")
	vpr.SetDefault("port", "3000")
	vpr.SetDefault("monitoring_port", "9090")
	vpr.SetDefault("rate_limit.window_ms", "60000")
	vpr.SetDefault("rate_limit.max_requests", "100")
	vpr.SetDefault("rate_limit.message", "Too many requests from this IP, please try again after a minute.")
	vpr.SetDefault("rate_limit.store", "memory")
	vpr.SetDefault("rate_limit.key_header", "")
	vpr.SetDefault("rate_limit.trust_xff", "false")
	vpr.SetDefault("redis.addr", "localhost:6379")
	vpr.SetDefault("redis.password", "")
	vpr.SetDefault("redis.db", "0")
	vpr.SetDefault("redis.prefix", "geodist:ratelimit")
}
