package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	return Config{
		DatabaseURL:         "postgres://localhost/polyglot",
		DBMinConns:          1,
		DBMaxConns:          4,
		TranslationStore:    StorePostgres,
		TranslationProvider: ProviderOpenAI,
		OpenAIAPIKey:        "sk-test",
		EngineTimeout:       30 * time.Second,
		ListingConcurrency:  4,
		SiteBaseURL:         "https://news.example",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsBadSettings(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = " " }, want: "DATABASE_URL"},
		{name: "min above max", mutate: func(c *Config) { c.DBMinConns = 9 }, want: "cannot exceed"},
		{name: "redis without url", mutate: func(c *Config) { c.TranslationStore = StoreRedis }, want: "REDIS_URL"},
		{name: "unknown store", mutate: func(c *Config) { c.TranslationStore = "sqlite" }, want: "TRANSLATION_STORE"},
		{name: "openai without key", mutate: func(c *Config) { c.OpenAIAPIKey = "" }, want: "OPENAI_API_KEY"},
		{name: "local without endpoint", mutate: func(c *Config) { c.TranslationProvider = ProviderLocal }, want: "TRANSLATION_ENDPOINT"},
		{name: "anthropic without key", mutate: func(c *Config) { c.TranslationProvider = ProviderAnthropic }, want: "ANTHROPIC_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.TranslationProvider = "google" }, want: "TRANSLATION_PROVIDER"},
		{name: "negative retries", mutate: func(c *Config) { c.EngineRetries = -1 }, want: "ENGINE_RETRIES"},
		{name: "zero concurrency", mutate: func(c *Config) { c.ListingConcurrency = 0 }, want: "LISTING_CONCURRENCY"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err.Error(), tc.want)
			}
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/polyglot")
	t.Setenv("TRANSLATION_STORE", " Redis ")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("TRANSLATION_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "key")
	t.Setenv("SITE_BASE_URL", "https://news.example/")
	t.Setenv("ENGINE_TIMEOUT", "15s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TranslationStore != StoreRedis {
		t.Fatalf("unexpected store: %q", cfg.TranslationStore)
	}
	if cfg.SiteBaseURL != "https://news.example" {
		t.Fatalf("unexpected site base URL: %q", cfg.SiteBaseURL)
	}
	if cfg.EngineTimeout != 15*time.Second {
		t.Fatalf("unexpected engine timeout: %s", cfg.EngineTimeout)
	}
	if cfg.ListingConcurrency != 4 {
		t.Fatalf("unexpected listing concurrency default: %d", cfg.ListingConcurrency)
	}
}

func TestCORSAllowedOriginsList(t *testing.T) {
	t.Parallel()

	cfg := Config{CORSAllowedOrigins: " https://a.example ,https://b.example,,https://a.example"}
	got := cfg.CORSAllowedOriginsList()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", got)
	}
}
