package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"horse.fit/polyglot/internal/content"
	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/locale"
	payloadschema "horse.fit/polyglot/internal/schema"
	"horse.fit/polyglot/internal/translation"
)

// Created is the result of a successful Create.
type Created struct {
	ID       int64           `json:"id"`
	UUID     string          `json:"uuid"`
	Slug     string          `json:"slug"`
	Category string          `json:"category"`
	Locales  []locale.Locale `json:"locales"`
}

// Create stores a new article with its authored source translations. When
// the draft carries import_url the page is fetched and added as a source.
func (s *Service) Create(ctx context.Context, draft *payloadschema.ArticleDraft) (Created, error) {
	if draft == nil {
		return Created{}, fmt.Errorf("%w: payload is nil", ErrInvalidDraft)
	}
	if !IsCategory(draft.Category) {
		return Created{}, fmt.Errorf("%w: %q", ErrUnknownCategory, draft.Category)
	}

	sources := append([]payloadschema.DraftTranslation(nil), draft.Translations...)
	if importURL := strings.TrimSpace(draft.ImportURL); importURL != "" {
		imported, err := s.importSource(ctx, importURL, draft.ImportLocale)
		if err != nil {
			return Created{}, err
		}
		sources = append(sources, imported)
	}

	rows := make([]db.TranslationRow, 0, len(sources))
	created := make([]locale.Locale, 0, len(sources))
	for _, src := range sources {
		row, err := s.sourceRow(src)
		if err != nil {
			return Created{}, err
		}
		for _, existing := range created {
			if existing.String() == row.Locale {
				return Created{}, fmt.Errorf("%w: duplicate %s source", ErrInvalidDraft, row.Locale)
			}
		}
		rows = append(rows, row)
		created = append(created, locale.Locale(row.Locale))
	}
	locale.SortByCode(created)

	article, err := s.repo.CreateArticle(ctx, db.CreateArticleParams{
		Slug:         draft.Slug,
		Category:     draft.Category,
		Image:        optional(draft.Image),
		Published:    draft.Published,
		Featured:     draft.Featured,
		AuthorRef:    optional(draft.AuthorRef),
		Translations: rows,
	})
	if err != nil {
		if errors.Is(err, db.ErrSlugTaken) {
			return Created{}, fmt.Errorf("%w: %s", ErrSlugTaken, draft.Slug)
		}
		return Created{}, &translation.StoreError{Op: "create article", Cause: err}
	}

	s.logger.Info().
		Int64("article_id", article.ArticleID).
		Str("slug", article.Slug).
		Int("source_count", len(rows)).
		Msg("article created")

	return Created{
		ID:       article.ArticleID,
		UUID:     article.ArticleUUID,
		Slug:     article.Slug,
		Category: article.Category,
		Locales:  created,
	}, nil
}

func (s *Service) importSource(ctx context.Context, importURL, rawLocale string) (payloadschema.DraftTranslation, error) {
	loc := locale.English
	if strings.TrimSpace(rawLocale) != "" {
		parsed, ok := locale.Parse(rawLocale)
		if !ok || !locale.IsSource(parsed) {
			return payloadschema.DraftTranslation{}, fmt.Errorf("%w: import_locale %q is not a source locale", ErrInvalidDraft, rawLocale)
		}
		loc = parsed
	}

	imported, err := s.fetch(ctx, importURL)
	if err != nil {
		return payloadschema.DraftTranslation{}, fmt.Errorf("%w: import %s: %v", ErrInvalidDraft, importURL, err)
	}
	if strings.TrimSpace(imported.Title) == "" {
		return payloadschema.DraftTranslation{}, fmt.Errorf("%w: imported page has no title", ErrInvalidDraft)
	}

	return payloadschema.DraftTranslation{
		Locale:  loc.String(),
		Title:   imported.Title,
		Content: imported.BodyHTML,
		Excerpt: imported.Excerpt,
	}, nil
}

func (s *Service) sourceRow(src payloadschema.DraftTranslation) (db.TranslationRow, error) {
	loc, ok := locale.Parse(src.Locale)
	if !ok || !locale.IsSource(loc) {
		return db.TranslationRow{}, fmt.Errorf("%w: %q is not a source locale", ErrInvalidDraft, src.Locale)
	}

	body := strings.TrimSpace(src.Content)
	text := content.PlainText(body)
	if text == "" {
		return db.TranslationRow{}, fmt.Errorf("%w: %s content has no text", ErrInvalidDraft, loc)
	}
	if !s.langMatches(text, loc) {
		return db.TranslationRow{}, fmt.Errorf("%w: %s content is written in another language", ErrInvalidDraft, loc)
	}

	title := strings.TrimSpace(src.Title)
	excerpt := strings.TrimSpace(src.Excerpt)
	if excerpt == "" {
		excerpt = content.Excerpt(body, excerptChars)
	}
	seoTitle := strings.TrimSpace(src.SEOTitle)
	if seoTitle == "" {
		seoTitle = title
	}
	seoDescription := strings.TrimSpace(src.SEODescription)
	if seoDescription == "" {
		seoDescription = excerpt
	}

	return db.TranslationRow{
		Locale:            loc.String(),
		Title:             title,
		BodyHTML:          body,
		Excerpt:           excerpt,
		SEOTitle:          seoTitle,
		SEODescription:    seoDescription,
		EstimatedReadTime: content.EstimateReadTime(body),
		Origin:            string(translation.OriginAuthored),
	}, nil
}
