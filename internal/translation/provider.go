package translation

import "context"

// Provider sends one prompt pair to a generative model and returns its raw
// text reply.
type Provider interface {
	Translate(ctx context.Context, req TranslateRequest) (*TranslateResponse, error)
	Name() string
	ModelName() string
}

// TranslateRequest describes one model call.
type TranslateRequest struct {
	SystemPrompt string
	Prompt       string
	TargetLang   string
}

// TranslateResponse contains the raw model reply and provider metadata.
type TranslateResponse struct {
	Text         string
	ProviderName string
	ModelName    string
	LatencyMs    int64
}
