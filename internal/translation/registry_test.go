package translation

import (
	"testing"

	"horse.fit/polyglot/internal/config"
)

func TestNewRegistryFromConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		TranslationProvider: config.ProviderAnthropic,
		OpenAIAPIKey:        "sk-test",
		AnthropicAPIKey:     "ak-test",
		TranslationEndpoint: "localhost:8845",
	}
	registry, err := NewRegistryFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewRegistryFromConfig() error = %v", err)
	}

	names := registry.ProviderNames()
	if len(names) != 3 || names[0] != "anthropic" || names[1] != "local" || names[2] != "openai" {
		t.Fatalf("unexpected providers: %v", names)
	}
	provider, err := registry.Provider("")
	if err != nil {
		t.Fatalf("Provider() error = %v", err)
	}
	if provider.Name() != "anthropic" || provider.ModelName() != DefaultAnthropicModel {
		t.Fatalf("unexpected default provider: %s/%s", provider.Name(), provider.ModelName())
	}
	if _, err := registry.Provider("google"); err == nil {
		t.Fatalf("expected unknown provider error")
	}
}

func TestNewRegistryFromConfigRequiresDefault(t *testing.T) {
	t.Parallel()

	_, err := NewRegistryFromConfig(&config.Config{TranslationProvider: config.ProviderOpenAI, AnthropicAPIKey: "ak"})
	if err == nil {
		t.Fatalf("expected missing default provider error")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                     DefaultLocalEndpoint,
		"localhost:8845":       "http://localhost:8845/v1",
		"http://gpu-box:9000/": "http://gpu-box:9000/v1",
		"http://gpu-box:9000/v1/chat/completions": "http://gpu-box:9000/v1",
		"https://llm.internal/openai/v1":          "https://llm.internal/openai/v1",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
