package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courier-route-service/internal/domain"
	"courier-route-service/internal/platform/metrics"
	"courier-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

const routeKeyPrefix = "routes:"

// RedisRouteCache stores computed courier routes in Redis under a request
// fingerprint. A zero TTL keeps entries until Redis evicts them.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisRouteCache connects to url (redis://host:port/db) and verifies the
// connection.
func NewRedisRouteCache(ctx context.Context, url string, ttl time.Duration) (*RedisRouteCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("route cache: parse redis url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("route cache: ping redis: %w", err)
	}

	return &RedisRouteCache{rdb: rdb, ttl: ttl}, nil
}

func NewRedisRouteCacheFromClient(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ []domain.CourierRoute, _ bool, err error) {
	defer obs.Time(ctx, "routecache.Get")(&err)

	data, err := c.rdb.Get(ctx, routeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RouteCacheLookups.WithLabelValues("miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.RouteCacheLookups.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("route cache get: %w", err)
	}

	var routes []domain.CourierRoute
	if err := json.Unmarshal(data, &routes); err != nil {
		metrics.RouteCacheLookups.WithLabelValues("error").Inc()
		return nil, false, fmt.Errorf("route cache get: decode entry: %w", err)
	}

	metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
	return routes, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, routes []domain.CourierRoute) error {
	data, err := json.Marshal(routes)
	if err != nil {
		return fmt.Errorf("route cache put: encode entry: %w", err)
	}

	if err := c.rdb.Set(ctx, routeKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("route cache put: %w", err)
	}
	return nil
}

func (c *RedisRouteCache) Close() error {
	return c.rdb.Close()
}
