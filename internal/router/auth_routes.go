package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gold-cinema/internal/handler"
)

// RegisterAuth mounts register and login. Neither requires a token; both
// sit behind the rate limiter when one is configured.
func RegisterAuth(g *echo.Group, a *handler.AuthHandler, limiter echo.MiddlewareFunc) {
	mw := optional(limiter)
	g.POST("/register", a.Register, mw...)
	g.POST("/login", a.Login, mw...)
}
