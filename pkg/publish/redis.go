package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/travigo/stopservices/pkg/consolidator"
)

const DefaultCacheExpiration = 48 * time.Hour

func CacheKey(stopID string) string {
	return fmt.Sprintf("stopservices:%s", stopID)
}

// RedisPublisher caches each stop's services as JSON under stopservices:<stop>
type RedisPublisher struct {
	Cache *cache.Cache[string]
}

func NewRedisPublisher(client *redis.Client, expiration time.Duration) *RedisPublisher {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &RedisPublisher{
		Cache: cache.New[string](redisStore),
	}
}

func (r *RedisPublisher) Name() string {
	return "redis"
}

func (r *RedisPublisher) Publish(ctx context.Context, runID string, output consolidator.Output) error {
	for _, stopID := range output.StopIDs() {
		servicesJSON, err := json.Marshal(output[stopID])
		if err != nil {
			return err
		}

		if err := r.Cache.Set(ctx, CacheKey(stopID), string(servicesJSON)); err != nil {
			return fmt.Errorf("caching %s: %w", stopID, err)
		}
	}

	return nil
}
