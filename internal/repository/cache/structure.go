package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"coursepanel/internal/domain/models/catalog"
	catalogSvc "coursepanel/internal/domain/services/catalog"

	"github.com/redis/go-redis/v9"
)

const (
	structureKeyPrefix = "structure:"
	versionKeyPrefix   = "structure-version:"

	defaultStructureTTL = 5 * time.Minute

	// versionTTL outlives any structure build by far; Invalidate refreshes it
	versionTTL = 24 * time.Hour
)

// setIfVersion writes KEYS[1] only while KEYS[2] still holds the version the
// caller read before building the value. A missing version counts as 0.
var setIfVersion = redis.NewScript(`
local current = redis.call('GET', KEYS[2])
if not current then current = '0' end
if current ~= ARGV[1] then return 0 end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// RedisStructureCache stores serialized course structures in redis with a TTL.
// Each course has a version counter so builds that raced with a mutation are not stored.
type RedisStructureCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStructureCache creates a redis-backed structure cache
func NewRedisStructureCache(client *redis.Client, ttl time.Duration) catalogSvc.StructureCache {
	if ttl <= 0 {
		ttl = defaultStructureTTL
	}
	return &RedisStructureCache{client: client, ttl: ttl}
}

// Get returns the cached structure of a course
func (c *RedisStructureCache) Get(ctx context.Context, courseID string) (*catalog.CourseStructure, bool, error) {
	data, err := c.client.Get(ctx, structureKeyPrefix+courseID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached structure: %w", err)
	}

	var structure catalog.CourseStructure
	if err := json.Unmarshal(data, &structure); err != nil {
		return nil, false, fmt.Errorf("decode cached structure: %w", err)
	}
	return &structure, true, nil
}

// Version returns the invalidation counter of a course
func (c *RedisStructureCache) Version(ctx context.Context, courseID string) (int64, error) {
	version, err := c.client.Get(ctx, versionKeyPrefix+courseID).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get structure version: %w", err)
	}
	return version, nil
}

// Set stores a course structure if no invalidation happened since version was read
func (c *RedisStructureCache) Set(ctx context.Context, structure *catalog.CourseStructure, version int64) error {
	data, err := json.Marshal(structure)
	if err != nil {
		return fmt.Errorf("encode structure: %w", err)
	}

	keys := []string{structureKeyPrefix + structure.ID, versionKeyPrefix + structure.ID}
	err = setIfVersion.Run(ctx, c.client, keys, strconv.FormatInt(version, 10), data, c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("set cached structure: %w", err)
	}
	return nil
}

// Invalidate bumps the version of each course and drops its cached structure
func (c *RedisStructureCache) Invalidate(ctx context.Context, courseIDs ...string) error {
	if len(courseIDs) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range courseIDs {
			pipe.Incr(ctx, versionKeyPrefix+id)
			pipe.Expire(ctx, versionKeyPrefix+id, versionTTL)
			pipe.Del(ctx, structureKeyPrefix+id)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate structures: %w", err)
	}
	return nil
}

// NoopStructureCache never stores anything. Used when redis is not configured.
type NoopStructureCache struct{}

func (NoopStructureCache) Get(context.Context, string) (*catalog.CourseStructure, bool, error) {
	return nil, false, nil
}

func (NoopStructureCache) Version(context.Context, string) (int64, error) { return 0, nil }

func (NoopStructureCache) Set(context.Context, *catalog.CourseStructure, int64) error { return nil }

func (NoopStructureCache) Invalidate(context.Context, ...string) error { return nil }
