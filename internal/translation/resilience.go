package translation

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"horse.fit/polyglot/internal/locale"
)

// RetryConfig controls exponential backoff for retryable engine failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 2,
		BaseDelay:  time.Second,
		MaxDelay:   20 * time.Second,
	}
}

// WithRetry runs fn until it succeeds, returns a non-retryable error, or the
// retry budget is spent.
func WithRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxRetries {
			delay := cfg.BaseDelay * time.Duration(1<<attempt)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}

	return zero, lastErr
}

// RetryingEngine retries Translate on retryable engine errors.
type RetryingEngine struct {
	next Engine
	cfg  RetryConfig
}

func NewRetryingEngine(next Engine, cfg RetryConfig) *RetryingEngine {
	return &RetryingEngine{next: next, cfg: cfg}
}

func (e *RetryingEngine) Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	return WithRetry(ctx, e.cfg, func() (TranslatedContent, error) {
		return e.next.Translate(ctx, src, target)
	})
}

func (e *RetryingEngine) EstimateReadTime(bodyHTML string) string {
	return e.next.EstimateReadTime(bodyHTML)
}

// BreakerConfig mirrors the gobreaker settings the engine uses.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          60 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerEngine stops calling the upstream model while it keeps failing.
type BreakerEngine struct {
	next    Engine
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerEngine(next Engine, cfg BreakerConfig, logger zerolog.Logger) *BreakerEngine {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn().
				Str("circuit", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("translation engine circuit breaker state changed")
		},
		// Caller cancellations say nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	return &BreakerEngine{next: next, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (e *BreakerEngine) Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	result, err := e.breaker.Execute(func() (interface{}, error) {
		return e.next.Translate(ctx, src, target)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return TranslatedContent{}, &EngineError{
				Provider: e.breaker.Name(),
				Message:  "translation engine unavailable: circuit breaker open",
				Cause:    err,
			}
		}
		return TranslatedContent{}, err
	}
	return result.(TranslatedContent), nil
}

func (e *BreakerEngine) EstimateReadTime(bodyHTML string) string {
	return e.next.EstimateReadTime(bodyHTML)
}

// State exposes the breaker state for health output.
func (e *BreakerEngine) State() gobreaker.State {
	return e.breaker.State()
}

// RateLimitedEngine caps upstream model calls per minute.
type RateLimitedEngine struct {
	next    Engine
	limiter *rate.Limiter
}

func NewRateLimitedEngine(next Engine, perMinute int) *RateLimitedEngine {
	if perMinute <= 0 {
		perMinute = 60
	}
	return &RateLimitedEngine{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
	}
}

func (e *RateLimitedEngine) Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return TranslatedContent{}, &EngineError{Message: "rate limit wait", Cause: err}
	}
	return e.next.Translate(ctx, src, target)
}

func (e *RateLimitedEngine) EstimateReadTime(bodyHTML string) string {
	return e.next.EstimateReadTime(bodyHTML)
}

// TimeoutEngine bounds each Translate call.
type TimeoutEngine struct {
	next    Engine
	timeout time.Duration
}

func NewTimeoutEngine(next Engine, timeout time.Duration) *TimeoutEngine {
	return &TimeoutEngine{next: next, timeout: timeout}
}

func (e *TimeoutEngine) Translate(ctx context.Context, src SourceContent, target locale.Locale) (TranslatedContent, error) {
	if e.timeout <= 0 {
		return e.next.Translate(ctx, src, target)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return e.next.Translate(ctx, src, target)
}

func (e *TimeoutEngine) EstimateReadTime(bodyHTML string) string {
	return e.next.EstimateReadTime(bodyHTML)
}

// StackOptions selects the decorators wrapped around a base engine.
type StackOptions struct {
	Timeout        time.Duration
	Retry          RetryConfig
	BreakerEnabled bool
	Breaker        BreakerConfig
	RatePerMinute  int
}

// Stack wraps base as retry(breaker(rate(timeout(base)))). Each retry attempt
// passes through the breaker and waits for its own rate token.
func Stack(base Engine, opts StackOptions, logger zerolog.Logger) Engine {
	engine := base
	if opts.Timeout > 0 {
		engine = NewTimeoutEngine(engine, opts.Timeout)
	}
	if opts.RatePerMinute > 0 {
		engine = NewRateLimitedEngine(engine, opts.RatePerMinute)
	}
	if opts.BreakerEnabled {
		cfg := opts.Breaker
		if cfg.Name == "" {
			cfg = DefaultBreakerConfig("translation-engine")
		}
		engine = NewBreakerEngine(engine, cfg, logger)
	}
	if opts.Retry.MaxRetries > 0 {
		engine = NewRetryingEngine(engine, opts.Retry)
	}
	return engine
}
