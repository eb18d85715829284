package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	cacheKeyPrefix = "cache:"
	tagKeyPrefix   = "tag:"
)

var invalidateTagScript = redis.NewScript(`
local tag = KEYS[1]
local cleared = 0

for i = 1, #ARGV do
	redis.call('SREM', tag, ARGV[i])
	cleared = cleared + redis.call('DEL', ARGV[i])
end

return cleared
`)

type RedisAdapter struct {
	client *redis.Client
}

func NewRedisAdapter(client *redis.Client) *RedisAdapter {
	return &RedisAdapter{client: client}
}

// Invalidate drops the cached entries for the given entity IDs and removes
// them from the tag's membership set in one round trip.
func (r *RedisAdapter) Invalidate(ctx context.Context, tag string, entityIDs []string) error {
	if len(entityIDs) == 0 {
		return nil
	}

	args := make([]interface{}, 0, len(entityIDs))
	for _, id := range entityIDs {
		args = append(args, entityCacheKey(tag, id))
	}

	if err := invalidateTagScript.Run(ctx, r.client, []string{tagKeyPrefix + tag}, args...).Err(); err != nil {
		return fmt.Errorf("invalidate tag %s: %w", tag, err)
	}

	return nil
}

// StoreEntity caches a payload under the tag so it can later be invalidated.
func (r *RedisAdapter) StoreEntity(ctx context.Context, tag, entityID, payload string) error {
	key := entityCacheKey(tag, entityID)
	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		return err
	}
	return r.client.SAdd(ctx, tagKeyPrefix+tag, key).Err()
}

func entityCacheKey(tag, entityID string) string {
	return cacheKeyPrefix + tag + ":" + entityID
}
