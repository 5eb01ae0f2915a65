package translation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"horse.fit/polyglot/internal/content"
	"horse.fit/polyglot/internal/locale"
	payloadschema "horse.fit/polyglot/internal/schema"
)

const tracerName = "horse.fit/polyglot/translation"

// Engine turns a source translation into another locale.
type Engine interface {
	// Translate returns *EngineError on transport failures, unparseable
	// output or missing required fields.
	Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error)
	// EstimateReadTime returns an "N min read" label for an HTML body.
	EstimateReadTime(bodyHTML string) string
}

// ModelEngine implements Engine on top of a generative model Provider.
type ModelEngine struct {
	provider Provider
	metrics  Metrics
}

func NewModelEngine(provider Provider, metrics Metrics) *ModelEngine {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &ModelEngine{provider: provider, metrics: metrics}
}

func (e *ModelEngine) Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	if e == nil || e.provider == nil {
		return TranslatedContent{}, &EngineError{Message: "engine has no provider"}
	}
	providerName := e.provider.Name()

	ctx, span := otel.Tracer(tracerName).Start(ctx, "translation.engine.translate")
	defer span.End()
	span.SetAttributes(
		attribute.String("translation.provider", providerName),
		attribute.String("translation.model", e.provider.ModelName()),
		attribute.String("translation.source_locale", src.Locale.String()),
		attribute.String("translation.target_locale", target.String()),
	)

	resp, err := e.provider.Translate(ctx, TranslateRequest{
		SystemPrompt: editorSystemPrompt,
		Prompt:       buildTranslationPrompt(src, target),
		TargetLang:   target.String(),
	})
	if err != nil {
		e.metrics.EngineCall(providerName, "error", 0)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider call failed")
		return TranslatedContent{}, asEngineError(providerName, err)
	}
	latencyMs := resp.LatencyMs

	parsed, err := payloadschema.ValidateTranslatedArticle([]byte(stripCodeFences(resp.Text)))
	if err != nil {
		e.metrics.EngineCall(providerName, "invalid_output", latencyMs)
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid model output")
		return TranslatedContent{}, &EngineError{
			Provider: providerName,
			Message:  "model output failed validation",
			Cause:    err,
		}
	}
	e.metrics.EngineCall(providerName, "ok", latencyMs)

	modelName := strings.TrimSpace(resp.ModelName)
	if modelName == "" {
		modelName = e.provider.ModelName()
	}
	name := strings.TrimSpace(resp.ProviderName)
	if name == "" {
		name = providerName
	}

	return TranslatedContent{
		Title:          strings.TrimSpace(parsed.Title),
		BodyHTML:       strings.TrimSpace(parsed.Content),
		Excerpt:        strings.TrimSpace(parsed.Excerpt),
		SEOTitle:       strings.TrimSpace(parsed.SEOTitle),
		SEODescription: strings.TrimSpace(parsed.SEODesc),
		ProviderName:   name,
		ModelName:      modelName,
	}, nil
}

func (e *ModelEngine) EstimateReadTime(bodyHTML string) string {
	return content.EstimateReadTime(bodyHTML)
}

func errProviderResponse(provider, message string, retryable bool) error {
	return &EngineError{Provider: provider, Message: message, Retryable: retryable}
}

// classifyRetryable reports whether a provider transport error is transient.
// SDK errors are judged by HTTP status; anything else by its message.
func classifyRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var openaiErr *openai.APIError
	if errors.As(err, &openaiErr) {
		return retryableStatus(openaiErr.HTTPStatusCode)
	}
	var openaiReqErr *openai.RequestError
	if errors.As(err, &openaiReqErr) {
		return retryableStatus(openaiReqErr.HTTPStatusCode)
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return retryableStatus(anthropicErr.StatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"rate limit",
		"timeout",
		"connection refused",
		"connection reset",
		"temporary",
		"overloaded",
		"429",
		"500",
		"502",
		"503",
		"529",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusRequestTimeout || code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func providerFailure(provider string, err error) error {
	return &EngineError{
		Provider:  provider,
		Message:   fmt.Sprintf("%s API call failed", provider),
		Cause:     err,
		Retryable: classifyRetryable(err),
	}
}
