package middleware

import "github.com/labstack/echo/v4"

// userID returns the authenticated subject, or "anon" before JWTAuth ran.
func userID(c echo.Context) string {
	if s, ok := c.Get(ContextUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}
