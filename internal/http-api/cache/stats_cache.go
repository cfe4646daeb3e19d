package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bookhaven/internal/http-api/dto"

	"github.com/redis/go-redis/v9"
)

// StatsCache keeps computed stats snapshots in Redis so repeated dashboard
// loads do not re-run the aggregation. It is nil-safe: with no Redis
// configured every call is a no-op and stats are computed fresh each time.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient dials Redis and verifies the connection.
func NewRedisClient(addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func NewStatsCache(client *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{client: client, ttl: ttl}
}

func statsKey(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}

// Get returns the cached snapshot for the user, or (nil, nil) on a miss.
func (c *StatsCache) Get(ctx context.Context, userID string) (*dto.StatsSnapshot, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}

	raw, err := c.client.Get(ctx, statsKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var snapshot dto.StatsSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (c *StatsCache) Set(ctx context.Context, userID string, snapshot *dto.StatsSnapshot) error {
	if c == nil || c.client == nil {
		return nil
	}

	raw, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey(userID), raw, c.ttl).Err()
}

// Invalidate drops the user's snapshot, called after every progress write.
func (c *StatsCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, statsKey(userID)).Err()
}
