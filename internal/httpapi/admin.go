package httpapi

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"horse.fit/polyglot/internal/auth"
	payloadschema "horse.fit/polyglot/internal/schema"
)

const maxDraftBytes = 2 << 20

func (s *Server) requireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if s.opts.AdminTokenHash == "" {
				return fail(c, http.StatusServiceUnavailable, "Admin API is disabled", nil)
			}
			token, ok := auth.BearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok || !auth.VerifyToken(token, s.opts.AdminTokenHash) {
				return unauthorizedResponse(c)
			}
			return next(c)
		}
	}
}

func (s *Server) handleCreateArticle(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxDraftBytes+1))
	if err != nil {
		return failValidation(c, "body", "could not be read")
	}
	if len(raw) > maxDraftBytes {
		return fail(c, http.StatusRequestEntityTooLarge, "Payload too large", nil)
	}

	draft, err := payloadschema.ValidateArticleDraft(raw)
	if err != nil {
		return failValidation(c, "body", err.Error())
	}

	created, err := s.articles.Create(c.Request().Context(), draft)
	if err != nil {
		return s.respondError(c, err, "Failed to create article")
	}
	return successWithStatus(c, http.StatusCreated, created)
}

func unauthorizedResponse(c echo.Context) error {
	c.Response().Header().Set("WWW-Authenticate", `Bearer realm="polyglot"`)
	return fail(c, http.StatusUnauthorized, "Unauthorized", nil)
}
