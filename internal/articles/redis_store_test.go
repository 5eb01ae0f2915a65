package articles

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"horse.fit/polyglot/internal/cache"
	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/locale"
	payloadschema "horse.fit/polyglot/internal/schema"
	"horse.fit/polyglot/internal/translation"
)

// postgresTranslations plays the article_translations table: CreateArticle
// writes authored rows here and the Redis store reads through to it.
type postgresTranslations struct {
	mu    sync.Mutex
	rows  map[string]translation.Translation
	views int
}

func (p *postgresTranslations) key(articleID int64, loc locale.Locale) string {
	return fmt.Sprintf("%d/%s", articleID, loc)
}

func (p *postgresTranslations) Get(_ context.Context, articleID int64, loc locale.Locale) (translation.Translation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	row, ok := p.rows[p.key(articleID, loc)]
	if !ok {
		return translation.Translation{}, translation.ErrNotFound
	}
	return row, nil
}

func (p *postgresTranslations) GetAll(_ context.Context, articleID int64) ([]translation.Translation, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	codes := locale.All()
	locale.SortByCode(codes)
	out := make([]translation.Translation, 0, len(p.rows))
	for _, loc := range codes {
		if row, ok := p.rows[p.key(articleID, loc)]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (p *postgresTranslations) InsertIfAbsent(_ context.Context, t translation.Translation) (translation.Translation, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.rows[p.key(t.ArticleID, t.Locale)]; ok {
		return existing, false, nil
	}
	t.CreatedAt = fixedTime
	p.rows[p.key(t.ArticleID, t.Locale)] = t
	return t, true, nil
}

func (p *postgresTranslations) IncrementViewCount(context.Context, int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views++
	return nil
}

type countingEngine struct {
	mu    sync.Mutex
	calls int
}

func (e *countingEngine) Translate(_ context.Context, _ translation.SourceContent, _ locale.Locale) (translation.TranslatedContent, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()
	return translation.TranslatedContent{
		Title:          "洪水",
		BodyHTML:       "<p>洪水</p>",
		Excerpt:        "要約",
		SEOTitle:       "洪水",
		SEODescription: "要約",
		ProviderName:   "fake",
		ModelName:      "fake-1",
	}, nil
}

func (e *countingEngine) EstimateReadTime(string) string {
	return "1 min read"
}

func redisJSON(t *testing.T, row translation.Translation) string {
	t.Helper()
	raw, err := json.Marshal(row)
	require.NoError(t, err)
	return string(raw)
}

func TestCreatedArticleResolvesThroughRedisStore(t *testing.T) {
	client, mock := redismock.NewClientMock()
	defer client.Close()

	backing := &postgresTranslations{rows: make(map[string]translation.Translation)}
	repo := &fakeRepo{articles: make(map[string]db.ArticleRow)}
	repo.createFn = func(params db.CreateArticleParams) (db.ArticleRow, error) {
		row := articleRow(99, params.Slug)
		repo.articles[params.Slug] = row
		repo.listed = []db.ArticleRow{row}
		for _, src := range params.Translations {
			loc := locale.Locale(src.Locale)
			backing.rows[backing.key(99, loc)] = translation.Translation{
				ArticleID:         99,
				Locale:            loc,
				TranslationUUID:   "src-" + src.Locale,
				Title:             src.Title,
				BodyHTML:          src.BodyHTML,
				Excerpt:           src.Excerpt,
				SEOTitle:          src.SEOTitle,
				SEODescription:    src.SEODescription,
				EstimatedReadTime: src.EstimatedReadTime,
				Origin:            translation.Origin(src.Origin),
				CreatedAt:         fixedTime,
			}
		}
		return row, nil
	}

	store := cache.NewRedisStoreFromClient(client, "test:", backing)
	engine := &countingEngine{}
	resolver := translation.NewResolver(store, engine, zerolog.Nop(),
		translation.WithIDGenerator(func() string { return "gen-ja" }))
	svc := NewService(repo, resolver, store, zerolog.Nop(), Options{
		LanguageMatches: func(string, locale.Locale) bool { return true },
	})

	ctx := context.Background()
	created, err := svc.Create(ctx, &payloadschema.ArticleDraft{
		Slug:      "floods",
		Category:  "politics",
		Published: true,
		Translations: []payloadschema.DraftTranslation{
			{Locale: "en", Title: "Floods", Content: "<p>Rivers rose overnight across the north.</p>"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []locale.Locale{locale.English}, created.Locales)

	source, err := backing.Get(ctx, 99, locale.English)
	require.NoError(t, err)
	generated := translation.Translation{
		ArticleID:         99,
		Locale:            locale.Japanese,
		TranslationUUID:   "gen-ja",
		Title:             "洪水",
		BodyHTML:          "<p>洪水</p>",
		Excerpt:           "要約",
		SEOTitle:          "洪水",
		SEODescription:    "要約",
		EstimatedReadTime: "1 min read",
		Origin:            translation.OriginGenerated,
		SourceLocale:      locale.English,
		ProviderName:      "fake",
		ModelName:         "fake-1",
		CreatedAt:         fixedTime,
	}

	key := "test:article:99:translations"
	mock.ExpectHGet(key, "ja").RedisNil()
	mock.ExpectHGet(key, "en").RedisNil()
	mock.ExpectHSetNX(key, "en", redisJSON(t, source)).SetVal(true)
	mock.ExpectHSetNX(key, "ja", redisJSON(t, generated)).SetVal(true)
	mock.ExpectHGet(key, "ja").SetVal(redisJSON(t, generated))

	first, err := svc.GetBySlug(ctx, "floods", locale.Japanese)
	require.NoError(t, err)
	assert.Equal(t, "洪水", first.Title)
	assert.Equal(t, locale.Japanese, first.Locale)

	second, err := svc.GetBySlug(ctx, "floods", locale.Japanese)
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, engine.calls)
	assert.Equal(t, 2, backing.views)
	require.NoError(t, mock.ExpectationsWereMet())

	listed, err := svc.List(ctx, locale.German, ListOptions{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, locale.English, listed[0].Locale)
}
