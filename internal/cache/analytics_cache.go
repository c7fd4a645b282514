package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"feedbackhub/internal/model"
)

// AnalyticsCache stores computed form snapshots keyed by a per-form
// generation. Invalidate bumps the generation, so a snapshot computed from
// responses read before a submission is written under a key no reader uses.
type AnalyticsCache interface {
	// Get returns the current generation and the snapshot stored for it;
	// the snapshot is nil on a miss
	Get(ctx context.Context, formID string) (*model.AnalyticsSnapshot, int64, error)
	// Set stores snapshot under generation, as returned by an earlier Get
	Set(ctx context.Context, snapshot *model.AnalyticsSnapshot, generation int64) error
	Invalidate(ctx context.Context, formID string) error
}

type analyticsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewAnalyticsCache creates a Redis-backed analytics cache
func NewAnalyticsCache(client *redis.Client, ttl time.Duration) AnalyticsCache {
	return &analyticsCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *analyticsCache) generationKey(formID string) string {
	return fmt.Sprintf("form:%s:analytics:gen", formID)
}

func (c *analyticsCache) key(formID string, generation int64) string {
	return fmt.Sprintf("form:%s:analytics:%d", formID, generation)
}

func (c *analyticsCache) generation(ctx context.Context, formID string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(formID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *analyticsCache) Get(ctx context.Context, formID string) (*model.AnalyticsSnapshot, int64, error) {
	gen, err := c.generation(ctx, formID)
	if err != nil {
		return nil, 0, err
	}
	data, err := c.client.Get(ctx, c.key(formID, gen)).Bytes()
	if err == redis.Nil {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, err
	}
	var snapshot model.AnalyticsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, 0, err
	}
	return &snapshot, gen, nil
}

func (c *analyticsCache) Set(ctx context.Context, snapshot *model.AnalyticsSnapshot, generation int64) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(snapshot.FormID, generation), data, c.ttl).Err()
}

func (c *analyticsCache) Invalidate(ctx context.Context, formID string) error {
	gen, err := c.client.Incr(ctx, c.generationKey(formID)).Result()
	if err != nil {
		return err
	}
	// the previous snapshot is unreachable now; drop it instead of waiting for the TTL
	return c.client.Del(ctx, c.key(formID, gen-1)).Err()
}

type noopAnalyticsCache struct{}

// NewNoopAnalyticsCache returns a cache that never stores anything
func NewNoopAnalyticsCache() AnalyticsCache {
	return noopAnalyticsCache{}
}

func (noopAnalyticsCache) Get(context.Context, string) (*model.AnalyticsSnapshot, int64, error) {
	return nil, 0, nil
}

func (noopAnalyticsCache) Set(context.Context, *model.AnalyticsSnapshot, int64) error { return nil }

func (noopAnalyticsCache) Invalidate(context.Context, string) error { return nil }
