package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"opsdesk/internal/delivery/http/response"
	domainerrors "opsdesk/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware renders every error that escapes a handler through the
// shared response envelope. Installed as Echo's HTTPErrorHandler.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	// Domain errors carry their own HTTP status and business code
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())

		return
	}

	// Echo's own errors: validator failures, unknown routes, bad methods
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = response.Error(c, httpErr.Code, "HTTP_ERROR", fmt.Sprintf("%v", httpErr.Message), "")

		return
	}

	// Anything else is a bug; log it and hide the detail from the client
	m.logger.Error("Unhandled error",
		"error", err.Error(),
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
	)

	_ = response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", "")
}
