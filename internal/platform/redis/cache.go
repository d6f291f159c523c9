package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

// ErrCacheMiss is returned by GetJSON when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// JSONCache stores JSON values under a shared key prefix.
type JSONCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewJSONCache(log *logger.Logger, cfg Config) (*JSONCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = "mysticwriter"
	}
	return &JSONCache{
		log:    log.With("service", "RedisJSONCache"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (c *JSONCache) key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

func (c *JSONCache) GetJSON(ctx context.Context, out any, parts ...string) error {
	raw, err := c.rdb.Get(ctx, c.key(parts...)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *JSONCache) SetJSON(ctx context.Context, v any, ttl time.Duration, parts ...string) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(parts...), raw, ttl).Err()
}

func (c *JSONCache) Delete(ctx context.Context, parts ...string) error {
	return c.rdb.Del(ctx, c.key(parts...)).Err()
}

func (c *JSONCache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *JSONCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
