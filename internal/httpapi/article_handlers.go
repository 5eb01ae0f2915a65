package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"horse.fit/polyglot/internal/articles"
	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

const localeContextKey = "polyglot.locale"

// requestedLocale is the locale a handler resolved for this request, or the
// raw :lang segment when none was resolved.
func requestedLocale(c echo.Context) string {
	if loc, ok := c.Get(localeContextKey).(locale.Locale); ok {
		return loc.String()
	}
	return c.Param("lang")
}

func (s *Server) handleArticleDetail(c echo.Context) error {
	loc, ok := locale.Parse(c.Param("lang"))
	if !ok {
		return failUnsupportedLocale(c, c.Param("lang"))
	}
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		return failValidation(c, "slug", "is required")
	}

	c.Set(localeContextKey, loc)
	article, err := s.articles.GetBySlug(c.Request().Context(), slug, loc)
	if err != nil {
		return s.respondError(c, err, "Failed to load article")
	}
	return success(c, article)
}

// handlePostCompat serves /posts/:slug?lang=xx. Unknown or missing languages
// fall back to Accept-Language and then the default locale.
func (s *Server) handlePostCompat(c echo.Context) error {
	loc, ok := locale.Parse(c.QueryParam("lang"))
	if !ok {
		loc, ok = locale.FromAcceptLanguage(c.Request().Header.Get("Accept-Language"))
	}
	if !ok {
		loc = locale.Default
	}

	c.Set(localeContextKey, loc)
	article, err := s.articles.GetBySlug(c.Request().Context(), c.Param("slug"), loc)
	if err != nil {
		return s.respondError(c, err, "Failed to load article")
	}
	return success(c, article)
}

func (s *Server) handleListArticles(c echo.Context) error {
	loc, ok := locale.Parse(c.Param("lang"))
	if !ok {
		return failUnsupportedLocale(c, c.Param("lang"))
	}
	limit, err := parsePositiveInt(c.QueryParam("limit"), articles.DefaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, "limit", err.Error())
	}
	offset, err := parsePositiveInt(c.QueryParam("offset"), 0, 0, 1_000_000)
	if err != nil {
		return failValidation(c, "offset", err.Error())
	}

	items, err := s.articles.List(c.Request().Context(), loc, articles.ListOptions{
		Category: c.QueryParam("category"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return s.respondError(c, err, "Failed to load articles")
	}
	return success(c, map[string]any{
		"items":  items,
		"locale": loc,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleFeaturedArticles(c echo.Context) error {
	loc, ok := locale.Parse(c.Param("lang"))
	if !ok {
		return failUnsupportedLocale(c, c.Param("lang"))
	}
	limit, err := parsePositiveInt(c.QueryParam("limit"), articles.DefaultFeaturedLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, "limit", err.Error())
	}

	items, err := s.articles.Featured(c.Request().Context(), loc, limit)
	if err != nil {
		return s.respondError(c, err, "Failed to load featured articles")
	}
	return success(c, map[string]any{
		"items":  items,
		"locale": loc,
	})
}

func (s *Server) handleCategoryArticles(c echo.Context) error {
	loc, ok := locale.Parse(c.Param("lang"))
	if !ok {
		return failUnsupportedLocale(c, c.Param("lang"))
	}
	limit, err := parsePositiveInt(c.QueryParam("limit"), articles.DefaultListLimit, 1, maxListLimit)
	if err != nil {
		return failValidation(c, "limit", err.Error())
	}
	category := strings.ToLower(strings.TrimSpace(c.Param("category")))

	items, err := s.articles.ByCategory(c.Request().Context(), loc, category, limit)
	if err != nil {
		return s.respondError(c, err, "Failed to load category")
	}
	return success(c, map[string]any{
		"items":    items,
		"locale":   loc,
		"category": category,
	})
}

func (s *Server) handleArticleLocales(c echo.Context) error {
	slug := strings.TrimSpace(c.Param("slug"))
	available, err := s.articles.AvailableLocales(c.Request().Context(), slug)
	if err != nil {
		return s.respondError(c, err, "Failed to load article locales")
	}

	items := make([]locale.Option, 0, len(available))
	for _, option := range locale.Options() {
		for _, code := range available {
			if option.Code == code {
				items = append(items, option)
				break
			}
		}
	}
	return success(c, map[string]any{
		"slug":      slug,
		"available": items,
		"all":       locale.Options(),
	})
}

// respondError maps service errors to HTTP responses.
func (s *Server) respondError(c echo.Context, err error, message string) error {
	var engineErr *translation.EngineError
	switch {
	case errors.Is(err, translation.ErrUnsupportedLocale):
		return failUnsupportedLocale(c, requestedLocale(c))
	case errors.Is(err, articles.ErrArticleNotFound), errors.Is(err, translation.ErrNotFound):
		return failNotFound(c, "Article not found")
	case errors.Is(err, articles.ErrUnknownCategory):
		return failNotFound(c, "Category not found")
	case errors.Is(err, articles.ErrSlugTaken):
		return fail(c, http.StatusConflict, "Slug already exists", nil)
	case errors.Is(err, articles.ErrInvalidDraft):
		return failValidation(c, "body", err.Error())
	case errors.As(err, &engineErr):
		s.logger.Error().Err(err).Str("path", c.Path()).Msg("translation engine failed")
		return translationUnavailable(c, requestedLocale(c), engineErr)
	default:
		s.logger.Error().Err(err).Str("path", c.Path()).Msg(strings.ToLower(message))
		return internalError(c, message)
	}
}
