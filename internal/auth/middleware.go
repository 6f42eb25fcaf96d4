package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const contextKeyUserID = "user_id"

// Middleware returns an Echo middleware that validates JWT access tokens from
// the Authorization header and stores the user ID in the request context.
func (ts *TokenService) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization format")
			}

			claims, err := ts.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(contextKeyUserID, claims.UserID)
			return next(c)
		}
	}
}

// GetUserID extracts the authenticated user ID from the Echo context. It
// panics if called on an unauthenticated route.
func GetUserID(c echo.Context) int64 {
	return c.Get(contextKeyUserID).(int64)
}
