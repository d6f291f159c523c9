package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mysticwriter-backend/internal/data/db"
	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gemini"
	"github.com/yungbote/mysticwriter-backend/internal/platform/imagegen"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/platform/openai"
	"github.com/yungbote/mysticwriter-backend/internal/platform/redis"
)

// Clients owns every external connection. Optional clients are nil when not
// configured.
type Clients struct {
	DB     *db.PostgresService
	Cache  *redis.JSONCache
	Bucket gcp.BucketService
	AI     openai.Client
	Images imagegen.Generator

	otelShutdown func(context.Context) error
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (*Clients, error) {
	log.Info("Wiring clients...")
	c := &Clients{}

	c.otelShutdown = observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Headers:     observability.ParseHeaders(cfg.OtelHeaders),
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,

		MetricsEndpoint: cfg.OtelMetricsEndpoint,
		MetricsInterval: cfg.OtelMetricsInterval,
	})

	pg, err := db.NewPostgresService(log, cfg.DB)
	if err != nil {
		c.Close(ctx)
		return nil, fmt.Errorf("init database: %w", err)
	}
	c.DB = pg

	// Redis
	if strings.TrimSpace(cfg.RedisAddr) != "" {
		cache, err := redis.NewJSONCache(log, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("init redis cache: %w", err)
		}
		c.Cache = cache
	}

	// Gcs
	bucket, err := resolveBucketService(log, cfg)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.Bucket = bucket

	// AI gateway
	if strings.TrimSpace(cfg.OpenAIAPIKey) != "" {
		ai, err := openai.NewClient(log, openai.Config{
			APIKey:     cfg.OpenAIAPIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.ChatModel,
			ImageModel: cfg.ImageModel,
			ImageSize:  cfg.ImageSize,
			Timeout:    cfg.AITimeout,
			MaxRetries: cfg.AIMaxRetries,
		})
		if err != nil {
			c.Close(ctx)
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		c.AI = ai
	} else {
		log.Warn("OPENAI_API_KEY not set; story AI falls back to canned text")
	}

	images, err := resolveImageGenerator(ctx, log, cfg, c.AI)
	if err != nil {
		c.Close(ctx)
		return nil, err
	}
	c.Images = images

	return c, nil
}

// resolveImageGenerator picks the avatar backend. A nil generator makes every
// avatar request end with no avatar.
func resolveImageGenerator(ctx context.Context, log *logger.Logger, cfg Config, ai openai.Client) (imagegen.Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.ImageProvider)) {
	case "", ImageProviderOpenAI:
		if ai == nil {
			log.Warn("image provider openai has no API key; avatars disabled")
			return nil, nil
		}
		return ai, nil
	case ImageProviderGemini:
		g, err := gemini.NewImageGenerator(ctx, log, gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiImageModel,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini image generator: %w", err)
		}
		return g, nil
	case ImageProviderNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported IMAGE_PROVIDER %q", cfg.ImageProvider)
	}
}

func (c *Clients) Close(ctx context.Context) {
	if c == nil {
		return
	}
	if c.Bucket != nil {
		_ = c.Bucket.Close()
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.otelShutdown != nil {
		_ = c.otelShutdown(ctx)
	}
}
