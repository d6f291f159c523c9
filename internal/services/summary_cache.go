package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mysticwriter-backend/internal/modules/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/platform/redis"
)

// SummaryCache fronts computed summaries. Entries are keyed by user and day
// so a date rollover never serves yesterday's numbers.
type SummaryCache interface {
	Get(ctx context.Context, userID uuid.UUID, day string) (analytics.Summary, bool, error)
	Set(ctx context.Context, userID uuid.UUID, day string, s analytics.Summary, ttl time.Duration) error
	Invalidate(ctx context.Context, userID uuid.UUID, day string) error
}

type jsonStore interface {
	GetJSON(ctx context.Context, out any, parts ...string) error
	SetJSON(ctx context.Context, v any, ttl time.Duration, parts ...string) error
	Delete(ctx context.Context, parts ...string) error
}

type redisSummaryCache struct {
	store jsonStore
}

func NewRedisSummaryCache(cache *redis.JSONCache) SummaryCache {
	if cache == nil {
		return nil
	}
	return &redisSummaryCache{store: cache}
}

func (c *redisSummaryCache) Get(ctx context.Context, userID uuid.UUID, day string) (analytics.Summary, bool, error) {
	var s analytics.Summary
	err := c.store.GetJSON(ctx, &s, "summary", userID.String(), day)
	if errors.Is(err, redis.ErrCacheMiss) {
		return analytics.Summary{}, false, nil
	}
	if err != nil {
		return analytics.Summary{}, false, err
	}
	return s, true, nil
}

func (c *redisSummaryCache) Set(ctx context.Context, userID uuid.UUID, day string, s analytics.Summary, ttl time.Duration) error {
	return c.store.SetJSON(ctx, s, ttl, "summary", userID.String(), day)
}

func (c *redisSummaryCache) Invalidate(ctx context.Context, userID uuid.UUID, day string) error {
	return c.store.Delete(ctx, "summary", userID.String(), day)
}
