package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

var translationColumnNames = []string{
	"translation_uuid", "article_id", "locale", "title", "body_html", "excerpt",
	"seo_title", "seo_description", "estimated_read_time", "origin",
	"source_locale", "provider_name", "model_name", "created_at",
}

func translationMockRow(loc, title, origin string, created time.Time) *sqlmock.Rows {
	var source, provider, model any
	if origin == "generated" {
		source, provider, model = "en", "openai", "gpt-4o-mini"
	}
	return sqlmock.NewRows(translationColumnNames).AddRow(
		"11111111-2222-3333-4444-555555555555", int64(42), loc, title, "<p>body</p>", "excerpt",
		"seo", "desc", "2 min read", origin, source, provider, model, created,
	)
}

func TestTranslationStoreGet(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT \* FROM "news"."article_translations" WHERE article_id = \$1 AND locale = \$2`).
		WithArgs(int64(42), "ja").
		WillReturnRows(translationMockRow("ja", "見出し", "generated", created))

	got, err := NewTranslationStore(pool).Get(context.Background(), 42, locale.Japanese)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	want := translation.Translation{
		ArticleID:         42,
		Locale:            locale.Japanese,
		TranslationUUID:   "11111111-2222-3333-4444-555555555555",
		Title:             "見出し",
		BodyHTML:          "<p>body</p>",
		Excerpt:           "excerpt",
		SEOTitle:          "seo",
		SEODescription:    "desc",
		EstimatedReadTime: "2 min read",
		Origin:            translation.OriginGenerated,
		SourceLocale:      locale.English,
		ProviderName:      "openai",
		ModelName:         "gpt-4o-mini",
		CreatedAt:         created,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected translation (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslationStoreGetMissing(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	mock.ExpectQuery(`FROM "news"."article_translations" WHERE article_id = \$1 AND locale = \$2`).
		WithArgs(int64(42), "ko").
		WillReturnRows(sqlmock.NewRows(translationColumnNames))

	_, err := NewTranslationStore(pool).Get(context.Background(), 42, locale.Korean)
	if !errors.Is(err, translation.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTranslationStoreGetFailure(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	mock.ExpectQuery(`FROM "news"."article_translations" WHERE article_id = \$1 AND locale = \$2`).
		WillReturnError(errors.New("connection reset by peer"))

	_, err := NewTranslationStore(pool).Get(context.Background(), 42, locale.Korean)
	var storeErr *translation.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected *StoreError, got %v", err)
	}
}

func TestTranslationStoreInsertIfAbsentInserted(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO news.article_translations AS t .* ON CONFLICT \(article_id, locale\) DO NOTHING`).
		WillReturnRows(translationMockRow("fr", "Titre", "generated", created))

	got, inserted, err := NewTranslationStore(pool).InsertIfAbsent(context.Background(), translation.Translation{
		ArticleID:       42,
		Locale:          locale.French,
		TranslationUUID: "11111111-2222-3333-4444-555555555555",
		Title:           "Titre",
		Origin:          translation.OriginGenerated,
		SourceLocale:    locale.English,
		CreatedAt:       created,
	})
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if !inserted || got.Title != "Titre" {
		t.Fatalf("unexpected insert result inserted=%t row=%+v", inserted, got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslationStoreInsertIfAbsentConflictReturnsWinner(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO news.article_translations`).
		WillReturnRows(sqlmock.NewRows(translationColumnNames))
	mock.ExpectQuery(`FROM "news"."article_translations" WHERE article_id = \$1 AND locale = \$2`).
		WithArgs(int64(42), "fr").
		WillReturnRows(translationMockRow("fr", "Titre gagnant", "generated", created))

	got, inserted, err := NewTranslationStore(pool).InsertIfAbsent(context.Background(), translation.Translation{
		ArticleID: 42,
		Locale:    locale.French,
		Title:     "Titre perdant",
		Origin:    translation.OriginGenerated,
	})
	if err != nil {
		t.Fatalf("InsertIfAbsent() error = %v", err)
	}
	if inserted {
		t.Fatalf("expected conflict to report inserted=false")
	}
	if got.Title != "Titre gagnant" {
		t.Fatalf("expected winning row, got %q", got.Title)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTranslationStoreGetAllOrdered(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	created := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(translationColumnNames).
		AddRow("a", int64(42), "de", "Titel", "", "", "", "", "1 min read", "generated", "en", "openai", nil, created).
		AddRow("b", int64(42), "en", "Title", "", "", "", "", "1 min read", "authored", nil, nil, nil, created)
	mock.ExpectQuery(`FROM "news"."article_translations" WHERE article_id = \$1 ORDER BY locale`).WithArgs(int64(42)).WillReturnRows(rows)

	got, err := NewTranslationStore(pool).GetAll(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(got) != 2 || got[0].Locale != locale.German || got[1].Origin != translation.OriginAuthored {
		t.Fatalf("unexpected rows: %+v", got)
	}
	if got[1].SourceLocale != "" || got[0].ModelName != "" {
		t.Fatalf("expected NULL columns to map to empty strings: %+v", got)
	}
}

func TestTranslationStoreIncrementViewCount(t *testing.T) {
	t.Parallel()

	pool, mock := newMockPool(t)
	mock.ExpectExec(`UPDATE news.articles\s+SET view_count = view_count \+ 1`).
		WithArgs(int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE news.articles`).
		WithArgs(int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	store := NewTranslationStore(pool)
	if err := store.IncrementViewCount(context.Background(), 42); err != nil {
		t.Fatalf("IncrementViewCount() error = %v", err)
	}
	err := store.IncrementViewCount(context.Background(), 43)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows for unknown article, got %v", err)
	}
}

func TestFromDomainTranslationOptionalColumns(t *testing.T) {
	t.Parallel()

	row := FromDomainTranslation(translation.Translation{ArticleID: 1, Locale: locale.English, Origin: translation.OriginAuthored})
	if row.SourceLocale != nil || row.ProviderName != nil || row.ModelName != nil {
		t.Fatalf("authored rows must not carry generation metadata: %+v", row)
	}
	args := translationInsertArgs(row)
	if args[13] != (*time.Time)(nil) {
		t.Fatalf("zero created_at must be sent as NULL, got %v", args[13])
	}
}
