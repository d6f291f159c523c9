package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/mysticwriter-backend/internal/data/db"
	"github.com/yungbote/mysticwriter-backend/internal/platform/envutil"
)

const (
	ImageProviderOpenAI = "openai"
	ImageProviderGemini = "gemini"
	ImageProviderNone   = "none"
)

// Config is resolved in three layers: defaults, an optional YAML file named
// by CONFIG_FILE, then environment variables.
type Config struct {
	ServiceName    string   `yaml:"service_name"`
	Environment    string   `yaml:"environment"`
	Version        string   `yaml:"version"`
	LogMode        string   `yaml:"log_mode"`
	HTTPAddr       string   `yaml:"http_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`

	DB          db.Config `yaml:"db"`
	AutoMigrate bool      `yaml:"auto_migrate"`

	RedisAddr       string        `yaml:"redis_addr"`
	RedisPassword   string        `yaml:"redis_password"`
	RedisDB         int           `yaml:"redis_db"`
	SummaryCacheTTL time.Duration `yaml:"summary_cache_ttl"`

	ObjectStorageMode    string `yaml:"object_storage_mode"`
	StorageEmulatorHost  string `yaml:"storage_emulator_host"`
	AvatarBucketName     string `yaml:"avatar_bucket_name"`
	AvatarCDNDomain      string `yaml:"avatar_cdn_domain"`
	StoragePublicBaseURL string `yaml:"object_storage_public_base_url"`
	GCPCredentials       string `yaml:"gcp_credentials"`

	OpenAIAPIKey     string        `yaml:"openai_api_key"`
	OpenAIBaseURL    string        `yaml:"openai_base_url"`
	ChatModel        string        `yaml:"chat_model"`
	ImageProvider    string        `yaml:"image_provider"`
	ImageModel       string        `yaml:"image_model"`
	ImageSize        string        `yaml:"image_size"`
	AITimeout        time.Duration `yaml:"ai_timeout"`
	AIMaxRetries     int           `yaml:"ai_max_retries"`
	GeminiAPIKey     string        `yaml:"gemini_api_key"`
	GeminiImageModel string        `yaml:"gemini_image_model"`

	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	JWTAudience string `yaml:"jwt_audience"`

	AnalyticsTimezone string `yaml:"analytics_timezone"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`

	OtelMetricsEndpoint string        `yaml:"otel_metrics_endpoint"`
	OtelMetricsInterval time.Duration `yaml:"otel_metrics_interval"`
}

func defaultConfig() Config {
	cfg := Config{
		ServiceName:       "mysticwriter-backend",
		Environment:       "development",
		Version:           "dev",
		LogMode:           "development",
		HTTPAddr:          ":8080",
		AutoMigrate:       true,
		SummaryCacheTTL:   30 * time.Second,
		ImageProvider:     ImageProviderOpenAI,
		AITimeout:         60 * time.Second,
		AIMaxRetries:      2,
		AnalyticsTimezone: "UTC",
		OtelSampleRatio:   1,
	}
	cfg.DB = db.Config{
		Driver:          db.DriverPostgres,
		PostgresHost:    "localhost",
		PostgresPort:    "5432",
		PostgresUser:    "postgres",
		PostgresName:    "mysticwriter",
		PostgresSSLMode: "disable",
	}
	return cfg
}

// LoadConfig seeds the environment from .env files, reads CONFIG_FILE when
// set, and applies environment overrides.
func LoadConfig() (Config, error) {
	if err := loadEnvFiles(); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadEnvFiles() error {
	cwd, err := os.Getwd()
	if err != nil {
		return nil
	}
	var files []string
	for _, name := range []string{".env", ".env.local"} {
		fp := filepath.Join(cwd, name)
		if _, err := os.Stat(fp); err == nil {
			files = append(files, fp)
		}
	}
	if len(files) == 0 {
		return nil
	}
	return godotenv.Overload(files...)
}

func loadYAML(path string, cfg *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config %q: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.ServiceName = envutil.String("SERVICE_NAME", cfg.ServiceName)
	cfg.Environment = envutil.String("APP_ENV", cfg.Environment)
	cfg.Version = envutil.String("SERVICE_VERSION", cfg.Version)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr)
	if port := envutil.String("PORT", ""); port != "" {
		cfg.HTTPAddr = ":" + port
	}
	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)

	y := cfg.DB
	cfg.DB = db.Config{
		Driver:           envutil.String("DB_DRIVER", y.Driver),
		PostgresHost:     envutil.String("POSTGRES_HOST", y.PostgresHost),
		PostgresPort:     envutil.String("POSTGRES_PORT", y.PostgresPort),
		PostgresUser:     envutil.String("POSTGRES_USER", y.PostgresUser),
		PostgresPassword: envutil.String("POSTGRES_PASSWORD", y.PostgresPassword),
		PostgresName:     envutil.String("POSTGRES_NAME", y.PostgresName),
		PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", y.PostgresSSLMode),
		SQLitePath:       envutil.String("SQLITE_PATH", y.SQLitePath),
		MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", y.MaxOpenConns),
		MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", y.MaxIdleConns),
	}
	cfg.AutoMigrate = envutil.Bool("DB_AUTO_MIGRATE", cfg.AutoMigrate)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPassword = envutil.String("REDIS_PASSWORD", cfg.RedisPassword)
	cfg.RedisDB = envutil.Int("REDIS_DB", cfg.RedisDB)
	cfg.SummaryCacheTTL = envutil.Seconds("SUMMARY_CACHE_TTL_SECONDS", cfg.SummaryCacheTTL)

	cfg.ObjectStorageMode = envutil.String("OBJECT_STORAGE_MODE", cfg.ObjectStorageMode)
	cfg.StorageEmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.StorageEmulatorHost)
	cfg.AvatarBucketName = envutil.String("AVATAR_GCS_BUCKET_NAME", cfg.AvatarBucketName)
	cfg.AvatarCDNDomain = envutil.String("AVATAR_CDN_DOMAIN", cfg.AvatarCDNDomain)
	cfg.StoragePublicBaseURL = envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", cfg.StoragePublicBaseURL)
	cfg.GCPCredentials = envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", envutil.String("GOOGLE_APPLICATION_CREDENTIALS", cfg.GCPCredentials))

	cfg.OpenAIAPIKey = envutil.String("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = envutil.String("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.ChatModel = envutil.String("CHAT_MODEL", cfg.ChatModel)
	cfg.ImageProvider = strings.ToLower(envutil.String("IMAGE_PROVIDER", cfg.ImageProvider))
	cfg.ImageModel = envutil.String("IMAGE_MODEL", cfg.ImageModel)
	cfg.ImageSize = envutil.String("IMAGE_SIZE", cfg.ImageSize)
	cfg.AITimeout = envutil.Seconds("AI_TIMEOUT_SECONDS", cfg.AITimeout)
	cfg.AIMaxRetries = envutil.Int("AI_MAX_RETRIES", cfg.AIMaxRetries)
	cfg.GeminiAPIKey = envutil.String("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiImageModel = envutil.String("GEMINI_IMAGE_MODEL", cfg.GeminiImageModel)

	cfg.JWTSecret = envutil.String("JWT_SECRET", cfg.JWTSecret)
	cfg.JWTIssuer = envutil.String("JWT_ISSUER", cfg.JWTIssuer)
	cfg.JWTAudience = envutil.String("JWT_AUDIENCE", cfg.JWTAudience)

	cfg.AnalyticsTimezone = envutil.String("ANALYTICS_TIMEZONE", cfg.AnalyticsTimezone)

	cfg.OtelEnabled = envutil.Bool("OTEL_ENABLED", cfg.OtelEnabled)
	cfg.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OtelEndpoint)
	cfg.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.OtelHeaders)
	cfg.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.OtelInsecure)
	cfg.OtelSampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.OtelSampleRatio)
	cfg.OtelMetricsEndpoint = envutil.String("OTEL_EXPORTER_OTLP_METRICS_ENDPOINT", cfg.OtelMetricsEndpoint)
	cfg.OtelMetricsInterval = envutil.Seconds("OTEL_METRIC_EXPORT_INTERVAL_SECONDS", cfg.OtelMetricsInterval)
}

// Location resolves ANALYTICS_TIMEZONE.
func (c Config) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.AnalyticsTimezone)
	if name == "" || strings.EqualFold(name, "UTC") {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid ANALYTICS_TIMEZONE %q: %w", name, err)
	}
	return loc, nil
}

func (c Config) String() string {
	return "service=" + c.ServiceName +
		" env=" + c.Environment +
		" addr=" + c.HTTPAddr +
		" db=" + c.DB.Driver +
		" storage=" + c.ObjectStorageMode +
		" image_provider=" + c.ImageProvider +
		" redis=" + strconv.FormatBool(c.RedisAddr != "")
}
