package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSlugTaken is returned when an article slug already exists.
var ErrSlugTaken = errors.New("article slug already exists")

const pgUniqueViolation = "23505"

// ArticleRow is one news.articles row.
type ArticleRow struct {
	ArticleID   int64     `json:"article_id"`
	ArticleUUID string    `json:"article_uuid"`
	Slug        string    `json:"slug"`
	Category    string    `json:"category"`
	Image       *string   `json:"image,omitempty"`
	Published   bool      `json:"published"`
	Featured    bool      `json:"featured"`
	ViewCount   int64     `json:"view_count"`
	AuthorRef   *string   `json:"author_ref,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleListOptions controls published article listings.
type ArticleListOptions struct {
	Category     string
	FeaturedOnly bool
	Limit        int
	Offset       int
}

// SitemapArticleRow is the slice of an article the sitemap needs.
type SitemapArticleRow struct {
	Slug      string
	UpdatedAt time.Time
}

// CreateArticleParams creates an article together with its authored source
// translations.
type CreateArticleParams struct {
	Slug         string
	Category     string
	Image        *string
	Published    bool
	Featured     bool
	AuthorRef    *string
	Translations []TranslationRow
}

const articleColumns = `
	a.article_id,
	a.article_uuid::text,
	a.slug,
	a.category,
	a.image,
	a.published,
	a.featured,
	a.view_count,
	a.author_ref,
	a.created_at,
	a.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (ArticleRow, error) {
	var item ArticleRow
	err := row.Scan(
		&item.ArticleID,
		&item.ArticleUUID,
		&item.Slug,
		&item.Category,
		&item.Image,
		&item.Published,
		&item.Featured,
		&item.ViewCount,
		&item.AuthorRef,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

// GetArticleBySlug returns ErrNoRows when the slug is unknown, or when
// publishedOnly is set and the article is a draft.
func (p *Pool) GetArticleBySlug(ctx context.Context, slug string, publishedOnly bool) (ArticleRow, error) {
	q := `
SELECT` + articleColumns + `
FROM news.articles a
WHERE a.slug = $1
  AND ($2 = false OR a.published)
LIMIT 1
`

	item, err := scanArticle(p.QueryRow(ctx, q, strings.TrimSpace(slug), publishedOnly))
	if err != nil {
		if IsNoRows(err) {
			return ArticleRow{}, ErrNoRows
		}
		return ArticleRow{}, fmt.Errorf("query article by slug: %w", err)
	}
	return item, nil
}

// ListPublishedArticles lists published articles newest first.
func (p *Pool) ListPublishedArticles(ctx context.Context, opts ArticleListOptions) ([]ArticleRow, error) {
	if opts.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	if opts.Offset < 0 {
		return nil, fmt.Errorf("offset must be >= 0")
	}

	q := `
SELECT` + articleColumns + `
FROM news.articles a
WHERE a.published
  AND ($1 = '' OR a.category = $1)
  AND ($2 = false OR a.featured)
ORDER BY a.created_at DESC, a.article_id DESC
LIMIT $3
OFFSET $4
`

	rows, err := p.Query(ctx, q, normalizeCategory(opts.Category), opts.FeaturedOnly, opts.Limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("query published articles: %w", err)
	}
	defer rows.Close()

	items := make([]ArticleRow, 0, opts.Limit)
	for rows.Next() {
		item, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan published article row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published articles: %w", err)
	}
	return items, nil
}

// ListSitemapArticles lists every published article slug.
func (p *Pool) ListSitemapArticles(ctx context.Context) ([]SitemapArticleRow, error) {
	const q = `
SELECT
	a.slug,
	a.updated_at
FROM news.articles a
WHERE a.published
ORDER BY a.created_at DESC, a.article_id DESC
`

	rows, err := p.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query sitemap articles: %w", err)
	}
	defer rows.Close()

	items := make([]SitemapArticleRow, 0, 128)
	for rows.Next() {
		var item SitemapArticleRow
		if err := rows.Scan(&item.Slug, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan sitemap article row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sitemap articles: %w", err)
	}
	return items, nil
}

// IncrementArticleViews bumps view_count by one.
func (p *Pool) IncrementArticleViews(ctx context.Context, articleID int64) error {
	const q = `
UPDATE news.articles
SET view_count = view_count + 1
WHERE article_id = $1
`

	affected, err := p.Exec(ctx, q, articleID)
	if err != nil {
		return fmt.Errorf("increment article views: %w", err)
	}
	if affected == 0 {
		return ErrNoRows
	}
	return nil
}

// CreateArticle inserts the article and its source translations in one
// transaction.
func (p *Pool) CreateArticle(ctx context.Context, params CreateArticleParams) (ArticleRow, error) {
	if strings.TrimSpace(params.Slug) == "" {
		return ArticleRow{}, fmt.Errorf("slug is required")
	}
	if len(params.Translations) == 0 {
		return ArticleRow{}, fmt.Errorf("at least one source translation is required")
	}

	q := `
INSERT INTO news.articles AS a (
	slug,
	category,
	image,
	published,
	featured,
	author_ref
)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING` + articleColumns + `
`

	var article ArticleRow
	err := p.InTx(ctx, func(tx Querier) error {
		var err error
		article, err = scanArticle(tx.QueryRow(
			ctx,
			q,
			strings.TrimSpace(params.Slug),
			normalizeCategory(params.Category),
			params.Image,
			params.Published,
			params.Featured,
			params.AuthorRef,
		))
		if err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return fmt.Errorf("insert article: %w", err)
		}

		for _, tr := range params.Translations {
			tr.ArticleID = article.ArticleID
			if _, err := tx.Exec(ctx, insertTranslationSQL, translationInsertArgs(tr)...); err != nil {
				return fmt.Errorf("insert %s translation: %w", tr.Locale, err)
			}
		}
		return nil
	})
	if err != nil {
		return ArticleRow{}, err
	}
	return article, nil
}

func normalizeCategory(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
