package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// currentUserID returns a string identity for rate limit keys. JWTAuth
// stores the sub claim as whatever type the JSON decoder produced, so
// numbers are formatted rather than asserted. Unauthenticated requests
// share the "anon" identity.
func currentUserID(c echo.Context) string {
	switch v := c.Get("user_id").(type) {
	case nil:
		return "anon"
	case string:
		if v == "" {
			return "anon"
		}
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}
