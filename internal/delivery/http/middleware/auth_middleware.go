package middleware

import (
	"net/http"
	"slices"
	"strings"

	"opsdesk/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	contextKeyAccountID = "accountID"
	contextKeyRole      = "role"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set caller identity on the context for handlers to use
		c.Set(contextKeyAccountID, claims.AccountID)
		c.Set(contextKeyRole, claims.Role)

		return next(c)
	}
}

// RequireRole is a middleware factory that checks if the caller has one of the
// given roles. It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(contextKeyRole).(string)
			if !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: role information missing"})
			}

			if !slices.Contains(requiredRoles, role) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Permission denied: require one of [" + strings.Join(requiredRoles, ", ") + "]"})
			}

			return next(c)
		}
	}
}

// GetAccountID returns the authenticated caller's account ID from the context.
func GetAccountID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(contextKeyAccountID).(uuid.UUID)

	return id, ok
}
