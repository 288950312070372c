package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/utils"
)

// Context keys set by JWTAuth.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

// JWTAuth validates the Bearer access token and stores its subject and role
// in the context under ContextUserID and ContextRole.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(ContextUserID, claims.Subject)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}
