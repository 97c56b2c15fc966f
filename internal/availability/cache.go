package availability

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Cache stores the free slots of one provider day per service duration,
// before the current time is applied.
//
// Get reports the version of the day it looked at, and Set stores slots under
// that version. An invalidation moves the day to a new version, so slots
// computed from reads that raced with a write are never served.
type Cache interface {
	Get(ctx context.Context, providerID string, date time.Time, minutes int) (slots []time.Time, version string, ok bool)
	Set(ctx context.Context, providerID string, date time.Time, minutes int, version string, slots []time.Time)
	// InvalidateDate drops one provider day, after a block or booking write.
	InvalidateDate(ctx context.Context, providerID string, date time.Time)
	// InvalidateProvider drops every day of a provider, after a schedule change.
	InvalidateProvider(ctx context.Context, providerID string)
}

type nopCache struct{}

// NewNopCache returns a cache that never hits.
func NewNopCache() Cache { return nopCache{} }

func (nopCache) Get(context.Context, string, time.Time, int) ([]time.Time, string, bool) {
	return nil, "", false
}
func (nopCache) Set(context.Context, string, time.Time, int, string, []time.Time) {}
func (nopCache) InvalidateDate(context.Context, string, time.Time)                {}
func (nopCache) InvalidateProvider(context.Context, string)                       {}

// genRetention keeps a day generation alive well past the last entry written under it.
const genRetention = 24 * time.Hour

// redisCache keeps one hash per provider day and version, with a field per
// service duration. The version joins the provider generation and the day
// generation; bumping either one orphans the cached entries, which then expire.
type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewRedisCache creates a Redis backed cache. Redis errors are logged and treated as misses.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *zap.Logger) Cache {
	return &redisCache{
		rdb: rdb,
		ttl: ttl,
		log: log,
	}
}

func dayKey(providerID string, date time.Time, version string) string {
	return fmt.Sprintf("availability:%s:%s:v%s", providerID, date.Format(time.DateOnly), version)
}

func providerGenKey(providerID string) string {
	return "availability:gen:" + providerID
}

func dayGenKey(providerID string, date time.Time) string {
	return providerGenKey(providerID) + ":" + date.Format(time.DateOnly)
}

func (c *redisCache) version(ctx context.Context, providerID string, date time.Time) (string, error) {
	gens, err := c.rdb.MGet(ctx, providerGenKey(providerID), dayGenKey(providerID, date)).Result()
	if err != nil {
		return "", err
	}
	return genOf(gens[0]) + "." + genOf(gens[1]), nil
}

// genOf reads one MGET value; a missing key is generation zero.
func genOf(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return "0"
}

func (c *redisCache) Get(ctx context.Context, providerID string, date time.Time, minutes int) ([]time.Time, string, bool) {
	version, err := c.version(ctx, providerID, date)
	if err != nil {
		c.log.Warn("availability cache read failed", zap.Error(err))
		return nil, "", false
	}

	raw, err := c.rdb.HGet(ctx, dayKey(providerID, date, version), strconv.Itoa(minutes)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("availability cache read failed", zap.Error(err))
		}
		return nil, version, false
	}

	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		c.log.Warn("availability cache entry is corrupt", zap.Error(err))
		return nil, version, false
	}
	return slots, version, true
}

func (c *redisCache) Set(ctx context.Context, providerID string, date time.Time, minutes int, version string, slots []time.Time) {
	if version == "" {
		return
	}

	raw, err := json.Marshal(slots)
	if err != nil {
		return
	}

	key := dayKey(providerID, date, version)
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, key, strconv.Itoa(minutes), raw)
	pipe.Expire(ctx, key, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

func (c *redisCache) InvalidateDate(ctx context.Context, providerID string, date time.Time) {
	key := dayGenKey(providerID, date)
	pipe := c.rdb.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, c.ttl+genRetention)
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.Warn("availability cache invalidation failed", zap.String("provider_id", providerID), zap.Error(err))
	}
}

func (c *redisCache) InvalidateProvider(ctx context.Context, providerID string) {
	if err := c.rdb.Incr(ctx, providerGenKey(providerID)).Err(); err != nil {
		c.log.Warn("availability cache invalidation failed", zap.String("provider_id", providerID), zap.Error(err))
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}
