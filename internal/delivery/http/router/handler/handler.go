package handler

import (
	"net/http"

	"opsdesk/internal/delivery/http/middleware"
	"opsdesk/internal/delivery/http/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// callerID returns the authenticated account ID placed on the context by the
// auth middleware.
func callerID(c echo.Context) (uuid.UUID, bool) {
	return middleware.GetAccountID(c)
}

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "")
}
