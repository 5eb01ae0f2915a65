package translation

import (
	"context"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	DefaultAnthropicModel     = "claude-3-5-haiku-latest"
	defaultAnthropicMaxTokens = 8192
)

// AnthropicProvider calls the Messages API.
type AnthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

type AnthropicConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int64
}

// NewAnthropicProvider disables the SDK's own retries; RetryingEngine owns
// retry policy for every provider.
func NewAnthropicProvider(cfg AnthropicConfig) *AnthropicProvider {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultAnthropicModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicProvider{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) ModelName() string {
	if p == nil {
		return ""
	}
	return p.model
}

func (p *AnthropicProvider) Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error) {
	if p == nil {
		return nil, errProviderResponse("anthropic", "provider is nil", false)
	}

	started := time.Now()
	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: p.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	})
	if err != nil {
		return nil, providerFailure(p.Name(), err)
	}
	if len(message.Content) == 0 {
		return nil, errProviderResponse(p.Name(), "response was empty", true)
	}

	var text strings.Builder
	for _, block := range message.Content {
		if textBlock, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(textBlock.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, errProviderResponse(p.Name(), "response contained no text", true)
	}
	if message.StopReason == anthropic.StopReasonMaxTokens {
		return nil, errProviderResponse(p.Name(), "response truncated at max tokens", false)
	}

	return &TranslateResponse{
		Text:         strings.TrimSpace(text.String()),
		ProviderName: p.Name(),
		ModelName:    string(message.Model),
		LatencyMs:    time.Since(started).Milliseconds(),
	}, nil
}
