package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StorePostgres = "postgres"
	StoreRedis    = "redis"

	ProviderOpenAI    = "openai"
	ProviderLocal     = "local"
	ProviderAnthropic = "anthropic"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	DBMinConns  int32  `envconfig:"DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"DB_MAX_CONNS" default:"8"`

	TranslationStore string `envconfig:"TRANSLATION_STORE" default:"postgres"`
	RedisURL         string `envconfig:"REDIS_URL" default:""`
	RedisKeyPrefix   string `envconfig:"REDIS_KEY_PREFIX" default:"polyglot:"`

	TranslationProvider string `envconfig:"TRANSLATION_PROVIDER" default:"openai"`
	OpenAIAPIKey        string `envconfig:"OPENAI_API_KEY" default:""`
	OpenAIModel         string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL       string `envconfig:"OPENAI_BASE_URL" default:""`
	TranslationEndpoint string `envconfig:"TRANSLATION_ENDPOINT" default:""`
	TranslationModel    string `envconfig:"TRANSLATION_MODEL" default:""`
	AnthropicAPIKey     string `envconfig:"ANTHROPIC_API_KEY" default:""`
	AnthropicModel      string `envconfig:"ANTHROPIC_MODEL" default:"claude-3-5-haiku-latest"`

	EngineTimeout        time.Duration `envconfig:"ENGINE_TIMEOUT" default:"90s"`
	EngineRetries        int           `envconfig:"ENGINE_RETRIES" default:"2"`
	EngineBreakerEnabled bool          `envconfig:"ENGINE_BREAKER_ENABLED" default:"true"`
	EngineRatePerMinute  int           `envconfig:"ENGINE_RATE_PER_MINUTE" default:"0"`

	SiteBaseURL        string `envconfig:"SITE_BASE_URL" default:"http://localhost:3000"`
	AdminTokenHash     string `envconfig:"ADMIN_TOKEN_HASH" default:""`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`
	ListingConcurrency int    `envconfig:"LISTING_CONCURRENCY" default:"4"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.TranslationStore = strings.ToLower(strings.TrimSpace(c.TranslationStore))
	c.TranslationProvider = strings.ToLower(strings.TrimSpace(c.TranslationProvider))
	c.SiteBaseURL = strings.TrimRight(strings.TrimSpace(c.SiteBaseURL), "/")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DBMinConns < 0 {
		return fmt.Errorf("DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) cannot exceed DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}

	switch c.TranslationStore {
	case StorePostgres:
	case StoreRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("REDIS_URL is required when TRANSLATION_STORE=redis")
		}
	default:
		return fmt.Errorf("TRANSLATION_STORE must be %q or %q, got %q", StorePostgres, StoreRedis, c.TranslationStore)
	}

	switch c.TranslationProvider {
	case ProviderOpenAI:
		if strings.TrimSpace(c.OpenAIAPIKey) == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSLATION_PROVIDER=openai")
		}
	case ProviderLocal:
		if strings.TrimSpace(c.TranslationEndpoint) == "" {
			return fmt.Errorf("TRANSLATION_ENDPOINT is required when TRANSLATION_PROVIDER=local")
		}
	case ProviderAnthropic:
		if strings.TrimSpace(c.AnthropicAPIKey) == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when TRANSLATION_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("TRANSLATION_PROVIDER must be one of openai, local, anthropic; got %q", c.TranslationProvider)
	}

	if c.EngineTimeout <= 0 {
		return fmt.Errorf("ENGINE_TIMEOUT must be > 0")
	}
	if c.EngineRetries < 0 {
		return fmt.Errorf("ENGINE_RETRIES must be >= 0")
	}
	if c.EngineRatePerMinute < 0 {
		return fmt.Errorf("ENGINE_RATE_PER_MINUTE must be >= 0")
	}
	if c.ListingConcurrency < 1 {
		return fmt.Errorf("LISTING_CONCURRENCY must be >= 1")
	}
	if c.SiteBaseURL == "" {
		return fmt.Errorf("SITE_BASE_URL is required")
	}
	return nil
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
