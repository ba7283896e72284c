package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"karaoke-lyrics-go/logcolors"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const redisKeyPrefix = "karaoke:"

// RedisCache is the shared cache tier. Entries expire after ttl.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache connects and pings. A ttl of zero keeps entries forever.
func NewRedisCache(addr, password string, db int, ttl time.Duration) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	log.Infof("%s Connected to %s (db %d, ttl %v)", logcolors.LogRedis, addr, db, ttl)
	return &RedisCache{rdb: rdb, ttl: ttl}, nil
}

func (rc *RedisCache) Name() string { return "redis" }

func (rc *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := rc.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (rc *RedisCache) Set(ctx context.Context, key, value string) error {
	return rc.rdb.Set(ctx, redisKeyPrefix+key, value, rc.ttl).Err()
}

func (rc *RedisCache) Delete(ctx context.Context, key string) error {
	return rc.rdb.Del(ctx, redisKeyPrefix+key).Err()
}

// Ping checks the connection, for health reporting.
func (rc *RedisCache) Ping(ctx context.Context) error {
	return rc.rdb.Ping(ctx).Err()
}

func (rc *RedisCache) Close() error {
	return rc.rdb.Close()
}
