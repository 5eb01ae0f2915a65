package translation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"horse.fit/polyglot/internal/globaltime"
	"horse.fit/polyglot/internal/locale"
)

// Resolver decides between serving a stored translation, generating a
// missing one, or falling back to another locale. It keeps no state between
// calls; every call reads the store.
type Resolver struct {
	store   Store
	engine  Engine
	logger  zerolog.Logger
	metrics Metrics
	newID   func() string
}

type ResolverOption func(*Resolver)

func WithMetrics(m Metrics) ResolverOption {
	return func(r *Resolver) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithIDGenerator overrides translation UUID generation.
func WithIDGenerator(fn func() string) ResolverOption {
	return func(r *Resolver) {
		if fn != nil {
			r.newID = fn
		}
	}
}

func NewResolver(store Store, engine Engine, logger zerolog.Logger, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:   store,
		engine:  engine,
		logger:  logger,
		metrics: NopMetrics{},
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveExact returns the article's translation in exactly loc, generating
// and persisting it on first request. It never substitutes another locale.
func (r *Resolver) ResolveExact(ctx context.Context, articleID int64, loc locale.Locale) (Translation, error) {
	if !locale.IsSupported(loc) {
		return Translation{}, fmt.Errorf("%w: %q", ErrUnsupportedLocale, loc)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "translation.resolve_exact")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("article.id", articleID),
		attribute.String("translation.locale", loc.String()),
	)

	existing, err := r.store.Get(ctx, articleID, loc)
	switch {
	case err == nil:
		r.metrics.CacheHit(loc.String())
		span.SetAttributes(attribute.Bool("translation.cache_hit", true))
		return existing, nil
	case !errors.Is(err, ErrNotFound):
		span.RecordError(err)
		span.SetStatus(codes.Error, "store get failed")
		return Translation{}, asStoreError("get translation", err)
	}
	r.metrics.CacheMiss(loc.String())
	span.SetAttributes(attribute.Bool("translation.cache_hit", false))

	source, err := r.findSource(ctx, articleID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "source lookup failed")
		return Translation{}, err
	}

	generated, err := r.engine.Translate(ctx, sourceFrom(source), loc)
	if err != nil {
		r.logger.Error().
			Err(err).
			Int64("article_id", articleID).
			Str("locale", loc.String()).
			Str("source_locale", source.Locale.String()).
			Msg("translation engine failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "engine failed")
		return Translation{}, asEngineError("", err)
	}
	readTime := r.engine.EstimateReadTime(generated.BodyHTML)

	candidate := Translation{
		ArticleID:         articleID,
		Locale:            loc,
		TranslationUUID:   r.newID(),
		Title:             generated.Title,
		BodyHTML:          generated.BodyHTML,
		Excerpt:           generated.Excerpt,
		SEOTitle:          generated.SEOTitle,
		SEODescription:    generated.SEODescription,
		EstimatedReadTime: readTime,
		Origin:            OriginGenerated,
		SourceLocale:      source.Locale,
		ProviderName:      generated.ProviderName,
		ModelName:         generated.ModelName,
		CreatedAt:         globaltime.UTC(),
	}

	stored, inserted, err := r.store.InsertIfAbsent(ctx, candidate)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "store insert failed")
		return Translation{}, asStoreError("insert translation", err)
	}
	if !inserted {
		r.metrics.InsertConflict(loc.String())
		r.logger.Debug().
			Int64("article_id", articleID).
			Str("locale", loc.String()).
			Msg("concurrent translation won the insert, discarding generated copy")
	} else {
		r.logger.Info().
			Int64("article_id", articleID).
			Str("locale", loc.String()).
			Str("source_locale", source.Locale.String()).
			Str("provider", generated.ProviderName).
			Msg("translation generated")
	}
	span.SetAttributes(attribute.Bool("translation.inserted", inserted))
	return stored, nil
}

// ResolveAny returns the best already-stored translation without calling the
// engine: preferred, then en, then th, then the lowest locale code present.
// Unsupported preferred locales are skipped.
func (r *Resolver) ResolveAny(ctx context.Context, articleID int64, preferred locale.Locale) (Translation, error) {
	rows, err := r.store.GetAll(ctx, articleID)
	if err != nil {
		return Translation{}, asStoreError("list translations", err)
	}
	if len(rows) == 0 {
		return Translation{}, ErrNotFound
	}

	byLocale := make(map[locale.Locale]Translation, len(rows))
	present := make([]locale.Locale, 0, len(rows))
	for _, row := range rows {
		if _, dup := byLocale[row.Locale]; dup {
			continue
		}
		byLocale[row.Locale] = row
		present = append(present, row.Locale)
	}

	order := make([]locale.Locale, 0, 3)
	if locale.IsSupported(preferred) {
		order = append(order, preferred)
	}
	order = append(order, locale.Sources()...)
	for _, code := range order {
		if row, ok := byLocale[code]; ok {
			return row, nil
		}
	}

	locale.SortByCode(present)
	return byLocale[present[0]], nil
}

// Available lists the locales already stored for an article, by code.
func (r *Resolver) Available(ctx context.Context, articleID int64) ([]locale.Locale, error) {
	rows, err := r.store.GetAll(ctx, articleID)
	if err != nil {
		return nil, asStoreError("list translations", err)
	}
	out := make([]locale.Locale, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Locale)
	}
	locale.SortByCode(out)
	return out, nil
}

func (r *Resolver) findSource(ctx context.Context, articleID int64) (Translation, error) {
	for _, src := range locale.Sources() {
		row, err := r.store.Get(ctx, articleID, src)
		if err == nil {
			return row, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Translation{}, asStoreError("get source translation", err)
		}
	}

	r.logger.Error().
		Bool("defect", true).
		Int64("article_id", articleID).
		Msg("article has no source translation")
	return Translation{}, fmt.Errorf("article %d: %w", articleID, ErrNoSourceTranslation)
}
