package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gold-cinema/internal/handler"
)

// RegisterCatalog mounts the public movie listing, cached when a cache
// middleware is given.
func RegisterCatalog(g *echo.Group, h *handler.CatalogHandler, cache echo.MiddlewareFunc) {
	mw := optional(cache)
	g.GET("/movies", h.List, mw...)
	g.GET("/movies/search", h.Search, mw...)
	g.GET("/movies/:id", h.Get, mw...)
}
