package articles

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

var fixedTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeRepo struct {
	mu       sync.Mutex
	articles map[string]db.ArticleRow
	listed   []db.ArticleRow
	listErr  error
	sitemap  []db.SitemapArticleRow
	mapErr   error
	created  []db.CreateArticleParams
	createFn func(db.CreateArticleParams) (db.ArticleRow, error)
	lastList db.ArticleListOptions
}

func (r *fakeRepo) GetArticleBySlug(_ context.Context, slug string, _ bool) (db.ArticleRow, error) {
	row, ok := r.articles[slug]
	if !ok {
		return db.ArticleRow{}, db.ErrNoRows
	}
	return row, nil
}

func (r *fakeRepo) ListPublishedArticles(_ context.Context, opts db.ArticleListOptions) ([]db.ArticleRow, error) {
	r.mu.Lock()
	r.lastList = opts
	r.mu.Unlock()
	return r.listed, r.listErr
}

func (r *fakeRepo) ListSitemapArticles(context.Context) ([]db.SitemapArticleRow, error) {
	return r.sitemap, r.mapErr
}

func (r *fakeRepo) CreateArticle(_ context.Context, params db.CreateArticleParams) (db.ArticleRow, error) {
	r.mu.Lock()
	r.created = append(r.created, params)
	r.mu.Unlock()
	if r.createFn != nil {
		return r.createFn(params)
	}
	return db.ArticleRow{ArticleID: 99, ArticleUUID: "uuid-99", Slug: params.Slug, Category: params.Category}, nil
}

type fakeResolver struct {
	mu         sync.Mutex
	exact      map[int64]translation.Translation
	exactErr   error
	any        map[int64]translation.Translation
	anyErr     map[int64]error
	available  []locale.Locale
	exactCalls []locale.Locale
	anyCalls   int
}

func (r *fakeResolver) ResolveExact(_ context.Context, articleID int64, loc locale.Locale) (translation.Translation, error) {
	r.mu.Lock()
	r.exactCalls = append(r.exactCalls, loc)
	r.mu.Unlock()
	if r.exactErr != nil {
		return translation.Translation{}, r.exactErr
	}
	t := r.exact[articleID]
	t.Locale = loc
	return t, nil
}

func (r *fakeResolver) ResolveAny(_ context.Context, articleID int64, _ locale.Locale) (translation.Translation, error) {
	r.mu.Lock()
	r.anyCalls++
	r.mu.Unlock()
	if err := r.anyErr[articleID]; err != nil {
		return translation.Translation{}, err
	}
	t, ok := r.any[articleID]
	if !ok {
		return translation.Translation{}, translation.ErrNotFound
	}
	return t, nil
}

func (r *fakeResolver) Available(context.Context, int64) ([]locale.Locale, error) {
	return r.available, nil
}

type fakeViews struct {
	mu    sync.Mutex
	calls []int64
	err   error
}

func (v *fakeViews) IncrementViewCount(_ context.Context, articleID int64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls = append(v.calls, articleID)
	return v.err
}

func articleRow(id int64, slug string) db.ArticleRow {
	return db.ArticleRow{
		ArticleID:   id,
		ArticleUUID: "uuid",
		Slug:        slug,
		Category:    "politics",
		Published:   true,
		CreatedAt:   fixedTime,
		UpdatedAt:   fixedTime,
	}
}

func stored(loc locale.Locale, title string) translation.Translation {
	return translation.Translation{
		Locale:            loc,
		Title:             title,
		BodyHTML:          "<p>body</p>",
		Excerpt:           "excerpt",
		EstimatedReadTime: "1 min read",
		Origin:            translation.OriginAuthored,
	}
}

func newTestService(repo *fakeRepo, resolver *fakeResolver, views ViewCounter, opts Options) (*Service, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	if opts.LanguageMatches == nil {
		opts.LanguageMatches = func(string, locale.Locale) bool { return true }
	}
	return NewService(repo, resolver, views, logger, opts), &logs
}
