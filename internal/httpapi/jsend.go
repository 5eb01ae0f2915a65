package httpapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

const (
	jsendSuccess = "success"
	jsendFail    = "fail"
	jsendError   = "error"

	// engineRetryAfter is advertised when a translation failure is transient.
	engineRetryAfter = 30
)

type jsendResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

func success(c echo.Context, data any) error {
	return successWithStatus(c, http.StatusOK, data)
}

func successWithStatus(c echo.Context, code int, data any) error {
	return c.JSON(code, jsendResponse{Status: jsendSuccess, Data: data})
}

func fail(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, jsendResponse{Status: jsendFail, Message: message, Data: data})
}

func failValidation(c echo.Context, field, reason string) error {
	return fail(c, http.StatusBadRequest, "Validation failed", map[string]any{
		"validation_errors": map[string]string{field: reason},
	})
}

func failNotFound(c echo.Context, message string) error {
	return fail(c, http.StatusNotFound, message, nil)
}

// failUnsupportedLocale echoes the rejected code with the supported list so
// clients can render a language picker.
func failUnsupportedLocale(c echo.Context, raw string) error {
	return fail(c, http.StatusBadRequest, "Unsupported locale", map[string]any{
		"locale":    raw,
		"supported": locale.All(),
	})
}

func errorWithStatus(c echo.Context, code int, message string, data any) error {
	return c.JSON(code, jsendResponse{Status: jsendError, Message: message, Code: code, Data: data})
}

func internalError(c echo.Context, message string) error {
	return errorWithStatus(c, http.StatusInternalServerError, message, nil)
}

// translationUnavailable reports a failed first-request translation. No
// other locale is substituted; the client decides whether to retry.
func translationUnavailable(c echo.Context, requested string, engineErr *translation.EngineError) error {
	if engineErr.Retryable {
		c.Response().Header().Set("Retry-After", strconv.Itoa(engineRetryAfter))
	}
	return errorWithStatus(c, http.StatusBadGateway,
		"Translation is temporarily unavailable, please try again later",
		map[string]any{
			"locale":    requested,
			"retryable": engineErr.Retryable,
		})
}

func storageUnavailable(c echo.Context) error {
	return errorWithStatus(c, http.StatusServiceUnavailable, "Storage unavailable", nil)
}
