package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gold-cinema/internal/utils"
)

// claimsKey is the echo context key holding the verified *utils.Claims.
const claimsKey = "claims"

// JWTAuth validates the Bearer access token on every request and stores the
// verified claims in the context. Handlers read them with ClaimsFrom.
func JWTAuth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := Authenticate(v, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
			}
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by JWTAuth, or nil when the request
// was not authenticated.
func ClaimsFrom(c echo.Context) *utils.Claims {
	claims, _ := c.Get(claimsKey).(*utils.Claims)
	return claims
}

// userID returns the authenticated user's id, or "anon" for guests.
func userID(c echo.Context) string {
	if claims := ClaimsFrom(c); claims != nil && claims.UserID != "" {
		return claims.UserID
	}
	return "anon"
}
