package config

import (
	"time"

	"karaoke-lyrics-go/logcolors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	log "github.com/sirupsen/logrus"
)

var conf = mustLoad()

type Config struct {
	Configuration struct {
		Port     string `envconfig:"PORT" default:"8080"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

		// Parsing is expensive, ticks are cheap and frequent
		ParseRateLimitPerSecond int `envconfig:"PARSE_RATE_LIMIT_PER_SECOND" default:"2"`
		ParseRateLimitBurst     int `envconfig:"PARSE_RATE_LIMIT_BURST" default:"5"`
		TickRateLimitPerSecond  int `envconfig:"TICK_RATE_LIMIT_PER_SECOND" default:"60"`
		TickRateLimitBurst      int `envconfig:"TICK_RATE_LIMIT_BURST" default:"120"`

		CacheDBPath     string `envconfig:"CACHE_DB_PATH" default:"data/cache.db"`
		CacheBackupPath string `envconfig:"CACHE_BACKUP_PATH" default:"data/backups"`
		CacheAccessKey  string `envconfig:"CACHE_ACCESS_KEY" default:""`

		RedisAddr            string `envconfig:"REDIS_ADDR" default:""` // empty disables the shared tier
		RedisPassword        string `envconfig:"REDIS_PASSWORD" default:""`
		RedisDB              int    `envconfig:"REDIS_DB" default:"0"`
		RedisCacheTTLSeconds int    `envconfig:"REDIS_CACHE_TTL_IN_SECONDS" default:"86400"`

		SessionTTLSeconds           int `envconfig:"SESSION_TTL_IN_SECONDS" default:"1800"`
		SessionSweepIntervalSeconds int `envconfig:"SESSION_SWEEP_INTERVAL_IN_SECONDS" default:"60"`

		LRCTailDurationMs int64  `envconfig:"LRC_TAIL_DURATION_MS" default:"5000"`
		StyleFile         string `envconfig:"STYLE_FILE" default:""`
		StylePreset       string `envconfig:"STYLE_PRESET" default:"default"`

		APIKey         string `envconfig:"API_KEY" default:""`
		APIKeyRequired bool   `envconfig:"API_KEY_REQUIRED" default:"false"`

		CircuitBreakerThreshold    int `envconfig:"CIRCUIT_BREAKER_THRESHOLD" default:"5"`
		CircuitBreakerCooldownSecs int `envconfig:"CIRCUIT_BREAKER_COOLDOWN_SECS" default:"60"`
	}

	FeatureFlags struct {
		CacheCompression bool `envconfig:"FF_CACHE_COMPRESSION" default:"true"`
		NormalizeCredits bool `envconfig:"FF_NORMALIZE_CREDITS" default:"true"`
	}
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Configuration.SessionTTLSeconds) * time.Second
}

func (c Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.Configuration.SessionSweepIntervalSeconds) * time.Second
}

func (c Config) RedisTTL() time.Duration {
	return time.Duration(c.Configuration.RedisCacheTTLSeconds) * time.Second
}

func (c Config) CircuitBreakerCooldown() time.Duration {
	return time.Duration(c.Configuration.CircuitBreakerCooldownSecs) * time.Second
}

// RedisEnabled reports whether a shared cache tier is configured.
func (c Config) RedisEnabled() bool {
	return c.Configuration.RedisAddr != ""
}

// load reads .env if present, then the environment.
func load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debugf("%s No .env file loaded: %v", logcolors.LogConfig, err)
	}

	cfg := Config{}
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func mustLoad() Config {
	c, err := load()
	if err != nil {
		log.WithError(err).Warnf("%s Unable to load configuration", logcolors.LogConfig)
	}
	return c
}

func Get() Config {
	return conf
}
