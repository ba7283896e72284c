package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"karaoke-lyrics-go/cache"
	"karaoke-lyrics-go/circuitbreaker"
	"karaoke-lyrics-go/logcolors"
	"karaoke-lyrics-go/middleware"
	"karaoke-lyrics-go/stats"
	"karaoke-lyrics-go/style"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// rateLimiterIdle is how long a client's buckets survive without requests.
const rateLimiterIdle = 10 * time.Minute

func setupLogging(level string) {
	log.SetFormatter(&log.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.Warnf("%s Unknown LOG_LEVEL %q, using info", logcolors.LogConfig, level)
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}

// setupCaches opens the bolt tier and, when configured, the Redis tier
// behind its circuit breaker. A Redis outage at startup only disables the
// shared tier.
func setupCaches() error {
	c := conf.Configuration

	if c.CacheDBPath != "" {
		bc, err := cache.OpenBoltCache(c.CacheDBPath, c.CacheBackupPath, conf.FeatureFlags.CacheCompression)
		if err != nil {
			return err
		}
		localCache = bc
	}

	if conf.RedisEnabled() {
		rc, err := cache.NewRedisCache(c.RedisAddr, c.RedisPassword, c.RedisDB, conf.RedisTTL())
		if err != nil {
			log.Warnf("%s Shared cache disabled: %v", logcolors.LogRedis, err)
		} else {
			sharedCache = rc
			redisBreaker = circuitbreaker.New(circuitbreaker.Config{
				Name:      "redis",
				Threshold: c.CircuitBreakerThreshold,
				Cooldown:  conf.CircuitBreakerCooldown(),
			})
		}
	}

	var shared, local cache.Store
	if sharedCache != nil {
		shared = sharedCache
	}
	if localCache != nil {
		local = localCache
	}
	if shared != nil || local != nil {
		documentCache = cache.NewLayered(shared, local, redisBreaker)
	}
	return nil
}

func closeCaches() {
	if localCache != nil {
		if err := localCache.Close(); err != nil {
			log.Errorf("%s Close failed: %v", logcolors.LogCache, err)
		}
	}
	if sharedCache != nil {
		sharedCache.Close()
	}
}

// loadBaseStyle resolves the style every new session starts from.
func loadBaseStyle() style.Config {
	cfg, err := style.Resolve(conf.Configuration.StyleFile, conf.Configuration.StylePreset)
	if err != nil {
		log.Warnf("%s Falling back to the default style: %v", logcolors.LogStyle, err)
		return style.Default()
	}
	log.Infof("%s Base style ready (viewer: %s)", logcolors.LogStyle, cfg.Viewer.Type)
	return cfg
}

func newRateLimiter() *middleware.IPRateLimiter {
	c := conf.Configuration
	return middleware.NewIPRateLimiter(map[middleware.Tier]middleware.TierLimit{
		middleware.TierParse: {Rate: rate.Limit(c.ParseRateLimitPerSecond), Burst: c.ParseRateLimitBurst},
		middleware.TierTick:  {Rate: rate.Limit(c.TickRateLimitPerSecond), Burst: c.TickRateLimitBurst},
	})
}

// forgetIdleClients trims the rate limiter until ctx ends.
func forgetIdleClients(ctx context.Context, limiter *middleware.IPRateLimiter) {
	ticker := time.NewTicker(rateLimiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := limiter.Forget(rateLimiterIdle); n > 0 {
				log.Debugf("%s Forgot %d idle clients", logcolors.LogRateLimit, n)
			}
		}
	}
}

// statsMiddleware records status class and latency of every response.
func statsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := middleware.NewResponseRecorder(w)
		next.ServeHTTP(rec, r)
		stats.Get().RecordResponse(rec.StatusCode, time.Since(start))
	})
}

// buildHandler wraps the router: CORS outermost, then request logging,
// then stats.
func buildHandler(router http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-API-Key"},
		ExposedHeaders: []string{
			"X-Cache-Status", "X-Session-ID", "X-Lyrics-Format",
			"X-RateLimit-Tier", "X-RateLimit-Limit", "X-RateLimit-Remaining",
		},
	})
	return c.Handler(middleware.LoggingMiddleware(statsMiddleware(router)))
}
