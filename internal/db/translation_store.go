package db

import (
	"context"

	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

// TranslationStore adapts Pool to translation.Store.
type TranslationStore struct {
	pool *Pool
}

func NewTranslationStore(pool *Pool) *TranslationStore {
	return &TranslationStore{pool: pool}
}

var _ translation.Store = (*TranslationStore)(nil)

func (s *TranslationStore) Get(ctx context.Context, articleID int64, loc locale.Locale) (translation.Translation, error) {
	row, err := s.pool.GetArticleTranslation(ctx, articleID, loc.String())
	if err != nil {
		if IsNoRows(err) {
			return translation.Translation{}, translation.ErrNotFound
		}
		return translation.Translation{}, &translation.StoreError{Op: "get translation", Cause: err}
	}
	return toDomainTranslation(row), nil
}

func (s *TranslationStore) GetAll(ctx context.Context, articleID int64) ([]translation.Translation, error) {
	rows, err := s.pool.ListArticleTranslations(ctx, articleID)
	if err != nil {
		return nil, &translation.StoreError{Op: "list translations", Cause: err}
	}
	out := make([]translation.Translation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toDomainTranslation(row))
	}
	return out, nil
}

func (s *TranslationStore) InsertIfAbsent(ctx context.Context, t translation.Translation) (translation.Translation, bool, error) {
	row, inserted, err := s.pool.InsertArticleTranslationIfAbsent(ctx, FromDomainTranslation(t))
	if err != nil {
		return translation.Translation{}, false, &translation.StoreError{Op: "insert translation", Cause: err}
	}
	return toDomainTranslation(row), inserted, nil
}

func (s *TranslationStore) IncrementViewCount(ctx context.Context, articleID int64) error {
	if err := s.pool.IncrementArticleViews(ctx, articleID); err != nil {
		return &translation.StoreError{Op: "increment views", Cause: err}
	}
	return nil
}

func toDomainTranslation(row TranslationRow) translation.Translation {
	return translation.Translation{
		ArticleID:         row.ArticleID,
		Locale:            locale.Locale(row.Locale),
		TranslationUUID:   row.TranslationUUID,
		Title:             row.Title,
		BodyHTML:          row.BodyHTML,
		Excerpt:           row.Excerpt,
		SEOTitle:          row.SEOTitle,
		SEODescription:    row.SEODescription,
		EstimatedReadTime: row.EstimatedReadTime,
		Origin:            translation.Origin(row.Origin),
		SourceLocale:      locale.Locale(derefString(row.SourceLocale)),
		ProviderName:      derefString(row.ProviderName),
		ModelName:         derefString(row.ModelName),
		CreatedAt:         row.CreatedAt.UTC(),
	}
}

// FromDomainTranslation converts a translation into its row form.
func FromDomainTranslation(t translation.Translation) TranslationRow {
	return TranslationRow{
		TranslationUUID:   t.TranslationUUID,
		ArticleID:         t.ArticleID,
		Locale:            t.Locale.String(),
		Title:             t.Title,
		BodyHTML:          t.BodyHTML,
		Excerpt:           t.Excerpt,
		SEOTitle:          t.SEOTitle,
		SEODescription:    t.SEODescription,
		EstimatedReadTime: t.EstimatedReadTime,
		Origin:            string(t.Origin),
		SourceLocale:      optionalString(t.SourceLocale.String()),
		ProviderName:      optionalString(t.ProviderName),
		ModelName:         optionalString(t.ModelName),
		CreatedAt:         t.CreatedAt,
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
