package translation

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is used when OPENAI_MODEL is unset.
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultLocalEndpoint points to a local OpenAI-compatible endpoint.
	DefaultLocalEndpoint = "http://127.0.0.1:8845/v1"
	// DefaultLocalModel is the default model served by the local endpoint.
	DefaultLocalModel = "tencent/HY-MT1.5-7B"
)

// OpenAIConfig configures an OpenAI or OpenAI-compatible provider.
type OpenAIConfig struct {
	// Name is reported as the provider name ("openai" or "local").
	Name        string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float32
	// JSONMode requests a JSON object response. Some local servers reject it.
	JSONMode bool
}

// OpenAIProvider calls the chat completions API through go-openai.
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	jsonMode    bool
}

func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	clientCfg := openai.DefaultConfig(strings.TrimSpace(cfg.APIKey))
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	name := normalizeProviderName(cfg.Name)
	if name == "" {
		name = "openai"
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(clientCfg),
		name:        name,
		model:       model,
		temperature: temperature,
		jsonMode:    cfg.JSONMode,
	}
}

// NewLocalProvider targets a self-hosted OpenAI-compatible endpoint.
func NewLocalProvider(endpoint, model string) *OpenAIProvider {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultLocalModel
	}
	return NewOpenAIProvider(OpenAIConfig{
		Name:        "local",
		APIKey:      "local",
		Model:       trimmedModel,
		BaseURL:     normalizeEndpoint(endpoint),
		Temperature: 0.7,
	})
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil || p.client == nil {
		return nil, errProviderResponse("openai", "provider is nil", false)
	}

	chatReq := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: p.temperature,
	}
	if p.jsonMode {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	started := time.Now()
	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, providerFailure(p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, errProviderResponse(p.name, "response missing choices", true)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errProviderResponse(p.name, "response was empty", true)
	}

	model := strings.TrimSpace(resp.Model)
	if model == "" {
		model = p.model
	}
	return &TranslateResponse{
		Text:         text,
		ProviderName: p.name,
		ModelName:    model,
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}

// normalizeEndpoint turns "host:port", "http://host:port" or a full
// chat-completions URL into an OpenAI-style base URL ending in /v1.
func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultLocalEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultLocalEndpoint
	}
	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/chat/completions")
	if path == "" {
		path = "/v1"
	}
	parsed.Path = path
	return parsed.String()
}
