package db

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TranslationRow is one news.article_translations row.
type TranslationRow struct {
	TranslationUUID   string
	ArticleID         int64
	Locale            string
	Title             string
	BodyHTML          string
	Excerpt           string
	SEOTitle          string
	SEODescription    string
	EstimatedReadTime string
	Origin            string
	SourceLocale      *string
	ProviderName      *string
	ModelName         *string
	CreatedAt         time.Time
}

const translationColumns = `
	t.translation_uuid::text,
	t.article_id,
	t.locale,
	t.title,
	t.body_html,
	t.excerpt,
	t.seo_title,
	t.seo_description,
	t.estimated_read_time,
	t.origin,
	t.source_locale,
	t.provider_name,
	t.model_name,
	t.created_at`

// insertTranslationSQL leaves existing rows untouched. RETURNING yields no
// row when the (article_id, locale) key already exists.
const insertTranslationSQL = `
INSERT INTO news.article_translations AS t (
	translation_uuid,
	article_id,
	locale,
	title,
	body_html,
	excerpt,
	seo_title,
	seo_description,
	estimated_read_time,
	origin,
	source_locale,
	provider_name,
	model_name,
	created_at
)
VALUES (COALESCE(NULLIF($1, '')::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, COALESCE($14, now()))
ON CONFLICT (article_id, locale) DO NOTHING
RETURNING` + translationColumns + `
`

func translationInsertArgs(row TranslationRow) []any {
	var createdAt *time.Time
	if !row.CreatedAt.IsZero() {
		ts := row.CreatedAt.UTC()
		createdAt = &ts
	}
	origin := strings.TrimSpace(row.Origin)
	if origin == "" {
		origin = "authored"
	}
	return []any{
		strings.TrimSpace(row.TranslationUUID),
		row.ArticleID,
		strings.TrimSpace(row.Locale),
		row.Title,
		row.BodyHTML,
		row.Excerpt,
		row.SEOTitle,
		row.SEODescription,
		row.EstimatedReadTime,
		origin,
		row.SourceLocale,
		row.ProviderName,
		row.ModelName,
		createdAt,
	}
}

func scanTranslation(row rowScanner) (TranslationRow, error) {
	var item TranslationRow
	err := row.Scan(
		&item.TranslationUUID,
		&item.ArticleID,
		&item.Locale,
		&item.Title,
		&item.BodyHTML,
		&item.Excerpt,
		&item.SEOTitle,
		&item.SEODescription,
		&item.EstimatedReadTime,
		&item.Origin,
		&item.SourceLocale,
		&item.ProviderName,
		&item.ModelName,
		&item.CreatedAt,
	)
	return item, err
}

// GetArticleTranslation returns ErrNoRows when the locale is not stored.
func (p *Pool) GetArticleTranslation(ctx context.Context, articleID int64, locale string) (TranslationRow, error) {
	gdb, err := p.models(ctx)
	if err != nil {
		return TranslationRow{}, err
	}

	// (article_id, locale) is unique, so at most one model comes back.
	var found []ArticleTranslation
	if err := gdb.Where("article_id = ? AND locale = ?", articleID, strings.TrimSpace(locale)).Find(&found).Error; err != nil {
		return TranslationRow{}, fmt.Errorf("query article translation: %w", err)
	}
	if len(found) == 0 {
		return TranslationRow{}, ErrNoRows
	}
	return translationRowFromModel(found[0]), nil
}

// ListArticleTranslations returns every stored locale for an article,
// ordered by locale code.
func (p *Pool) ListArticleTranslations(ctx context.Context, articleID int64) ([]TranslationRow, error) {
	gdb, err := p.models(ctx)
	if err != nil {
		return nil, err
	}

	var found []ArticleTranslation
	if err := gdb.Where("article_id = ?", articleID).Order("locale").Find(&found).Error; err != nil {
		return nil, fmt.Errorf("query article translations: %w", err)
	}

	items := make([]TranslationRow, 0, len(found))
	for _, m := range found {
		items = append(items, translationRowFromModel(m))
	}
	return items, nil
}

func translationRowFromModel(m ArticleTranslation) TranslationRow {
	return TranslationRow{
		TranslationUUID:   m.TranslationUUID,
		ArticleID:         m.ArticleID,
		Locale:            m.Locale,
		Title:             m.Title,
		BodyHTML:          m.BodyHTML,
		Excerpt:           m.Excerpt,
		SEOTitle:          m.SEOTitle,
		SEODescription:    m.SEODescription,
		EstimatedReadTime: m.EstimatedReadTime,
		Origin:            m.Origin,
		SourceLocale:      m.SourceLocale,
		ProviderName:      m.ProviderName,
		ModelName:         m.ModelName,
		CreatedAt:         m.CreatedAt,
	}
}

// InsertArticleTranslationIfAbsent inserts row unless its (article_id,
// locale) key exists, in which case the stored row is returned with
// inserted=false.
func (p *Pool) InsertArticleTranslationIfAbsent(ctx context.Context, row TranslationRow) (TranslationRow, bool, error) {
	item, err := scanTranslation(p.QueryRow(ctx, insertTranslationSQL, translationInsertArgs(row)...))
	if err == nil {
		return item, true, nil
	}
	if !IsNoRows(err) {
		return TranslationRow{}, false, fmt.Errorf("insert article translation: %w", err)
	}

	existing, err := p.GetArticleTranslation(ctx, row.ArticleID, row.Locale)
	if err != nil {
		if IsNoRows(err) {
			return TranslationRow{}, false, fmt.Errorf("translation conflict for article %d locale %s but no row found", row.ArticleID, row.Locale)
		}
		return TranslationRow{}, false, err
	}
	return existing, false, nil
}
