package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRole enforces that the authenticated user has one of roles. It must
// run after JWTAuth; without claims the request is answered with 401.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := Authorize(ClaimsFrom(c), roles...); err != nil {
				if errors.Is(err, ErrForbidden) {
					return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			return next(c)
		}
	}
}
