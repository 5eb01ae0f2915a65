package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/langdetect"
	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/reader"
	"horse.fit/polyglot/internal/translation"
)

// Repository is the article catalogue. *db.Pool satisfies it.
type Repository interface {
	GetArticleBySlug(ctx context.Context, slug string, publishedOnly bool) (db.ArticleRow, error)
	ListPublishedArticles(ctx context.Context, opts db.ArticleListOptions) ([]db.ArticleRow, error)
	ListSitemapArticles(ctx context.Context) ([]db.SitemapArticleRow, error)
	CreateArticle(ctx context.Context, params db.CreateArticleParams) (db.ArticleRow, error)
}

// Resolver is satisfied by *translation.Resolver.
type Resolver interface {
	ResolveExact(ctx context.Context, articleID int64, loc locale.Locale) (translation.Translation, error)
	ResolveAny(ctx context.Context, articleID int64, preferred locale.Locale) (translation.Translation, error)
	Available(ctx context.Context, articleID int64) ([]locale.Locale, error)
}

type ViewCounter interface {
	IncrementViewCount(ctx context.Context, articleID int64) error
}

type Options struct {
	ListingConcurrency int
	SiteBaseURL        string
	// Fetch imports a source article from a URL. Defaults to reader.FetchArticle.
	Fetch func(ctx context.Context, url string) (reader.Article, error)
	// LanguageMatches rejects authored bodies in the wrong language.
	// Defaults to langdetect.Matches.
	LanguageMatches func(text string, want locale.Locale) bool
}

type Service struct {
	repo        Repository
	resolver    Resolver
	views       ViewCounter
	logger      zerolog.Logger
	concurrency int
	baseURL     string
	fetch       func(ctx context.Context, url string) (reader.Article, error)
	langMatches func(text string, want locale.Locale) bool
}

func NewService(repo Repository, resolver Resolver, views ViewCounter, logger zerolog.Logger, opts Options) *Service {
	concurrency := opts.ListingConcurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	baseURL := strings.TrimRight(strings.TrimSpace(opts.SiteBaseURL), "/")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	fetch := opts.Fetch
	if fetch == nil {
		fetch = reader.FetchArticle
	}
	langMatches := opts.LanguageMatches
	if langMatches == nil {
		langMatches = langdetect.Matches
	}
	return &Service{
		repo:        repo,
		resolver:    resolver,
		views:       views,
		logger:      logger,
		concurrency: concurrency,
		baseURL:     baseURL,
		fetch:       fetch,
		langMatches: langMatches,
	}
}

// GetBySlug returns the published article in exactly loc, generating the
// translation on first request.
func (s *Service) GetBySlug(ctx context.Context, slug string, loc locale.Locale) (Article, error) {
	if !locale.IsSupported(loc) {
		return Article{}, fmt.Errorf("%w: %q", translation.ErrUnsupportedLocale, loc)
	}

	row, err := s.lookup(ctx, slug)
	if err != nil {
		return Article{}, err
	}

	t, err := s.resolver.ResolveExact(ctx, row.ArticleID, loc)
	if err != nil {
		return Article{}, err
	}

	if s.views != nil {
		if err := s.views.IncrementViewCount(ctx, row.ArticleID); err != nil {
			s.logger.Warn().
				Err(err).
				Int64("article_id", row.ArticleID).
				Msg("increment view count failed")
		}
	}

	return render(row, t, loc), nil
}

// Warm materializes every requested locale for an article and reports the
// first failure per locale without stopping.
func (s *Service) Warm(ctx context.Context, slug string, locs []locale.Locale) ([]WarmResult, error) {
	row, err := s.lookupAny(ctx, slug)
	if err != nil {
		return nil, err
	}

	results := make([]WarmResult, 0, len(locs))
	for _, loc := range locs {
		t, err := s.resolver.ResolveExact(ctx, row.ArticleID, loc)
		result := WarmResult{Locale: loc, Err: err}
		if err == nil {
			result.Origin = string(t.Origin)
			result.Title = t.Title
		}
		results = append(results, result)
	}
	return results, nil
}

type WarmResult struct {
	Locale locale.Locale
	Origin string
	Title  string
	Err    error
}

type ListOptions struct {
	Category string
	Limit    int
	Offset   int
}

// List returns the latest published articles, each in the best available
// locale. Articles with no translations at all are left out.
func (s *Service) List(ctx context.Context, loc locale.Locale, opts ListOptions) ([]Article, error) {
	category := strings.ToLower(strings.TrimSpace(opts.Category))
	if category != "" && !IsCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, opts.Category)
	}
	rows, err := s.repo.ListPublishedArticles(ctx, db.ArticleListOptions{
		Category: category,
		Limit:    clampLimit(opts.Limit, DefaultListLimit),
		Offset:   max(opts.Offset, 0),
	})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return s.resolveListing(ctx, rows, loc)
}

func (s *Service) Featured(ctx context.Context, loc locale.Locale, limit int) ([]Article, error) {
	rows, err := s.repo.ListPublishedArticles(ctx, db.ArticleListOptions{
		FeaturedOnly: true,
		Limit:        clampLimit(limit, DefaultFeaturedLimit),
	})
	if err != nil {
		return nil, fmt.Errorf("list featured articles: %w", err)
	}
	return s.resolveListing(ctx, rows, loc)
}

func (s *Service) ByCategory(ctx context.Context, loc locale.Locale, category string, limit int) ([]Article, error) {
	if !IsCategory(category) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	return s.List(ctx, loc, ListOptions{Category: category, Limit: limit})
}

// AvailableLocales lists the locales already stored for the article.
func (s *Service) AvailableLocales(ctx context.Context, slug string) ([]locale.Locale, error) {
	row, err := s.lookup(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.resolver.Available(ctx, row.ArticleID)
}

func (s *Service) resolveListing(ctx context.Context, rows []db.ArticleRow, loc locale.Locale) ([]Article, error) {
	resolved := make([]*Article, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, row := range rows {
		g.Go(func() error {
			t, err := s.resolver.ResolveAny(gctx, row.ArticleID, loc)
			if err != nil {
				if errors.Is(err, translation.ErrNotFound) {
					s.logger.Error().
						Bool("defect", true).
						Int64("article_id", row.ArticleID).
						Str("slug", row.Slug).
						Msg("published article has no translations, excluded from listing")
					return nil
				}
				return fmt.Errorf("resolve article %d: %w", row.ArticleID, err)
			}
			item := render(row, t, loc)
			item.BodyHTML = ""
			resolved[i] = &item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Article, 0, len(rows))
	for _, item := range resolved {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *Service) lookup(ctx context.Context, slug string) (db.ArticleRow, error) {
	return s.getArticle(ctx, slug, true)
}

func (s *Service) lookupAny(ctx context.Context, slug string) (db.ArticleRow, error) {
	return s.getArticle(ctx, slug, false)
}

func (s *Service) getArticle(ctx context.Context, slug string, publishedOnly bool) (db.ArticleRow, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return db.ArticleRow{}, ErrArticleNotFound
	}
	row, err := s.repo.GetArticleBySlug(ctx, slug, publishedOnly)
	if err != nil {
		if db.IsNoRows(err) {
			return db.ArticleRow{}, fmt.Errorf("%w: %s", ErrArticleNotFound, slug)
		}
		return db.ArticleRow{}, &translation.StoreError{Op: "get article", Cause: err}
	}
	return row, nil
}

func clampLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	return min(limit, MaxListLimit)
}
