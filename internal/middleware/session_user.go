package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	// UserHeader identifies the session user. The stub trusts it as-is.
	UserHeader = "X-User-Id"
	// AnonymousUser is used when no user header is present.
	AnonymousUser = "anonymous"

	userContextKey = "userID"
	maxUserIDLen   = 64
)

// SessionUserMiddleware resolves the current user from the X-User-Id header
// and stores it in the context.
func SessionUserMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID := strings.TrimSpace(c.Request().Header.Get(UserHeader))
			if userID == "" {
				userID = AnonymousUser
			}
			if len(userID) > maxUserIDLen {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid X-User-Id header")
			}

			c.Set(userContextKey, userID)
			return next(c)
		}
	}
}

// UserID returns the user resolved by SessionUserMiddleware.
func UserID(c echo.Context) string {
	if id, ok := c.Get(userContextKey).(string); ok && id != "" {
		return id
	}
	return AnonymousUser
}
