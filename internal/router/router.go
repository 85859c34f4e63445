// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gold-cinema/internal/handler"
	"github.com/iliyamo/gold-cinema/internal/middleware"
)

// Deps carries everything the route groups need. RateLimit and Cache may
// be nil, in which case those routes are served without them.
type Deps struct {
	Verifier  middleware.TokenVerifier
	Auth      *handler.AuthHandler
	Bookings  *handler.BookingHandler
	Admin     *handler.AdminHandler
	Catalog   *handler.CatalogHandler
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// RegisterRoutes registers every API route on e.
func RegisterRoutes(e *echo.Echo, d Deps) {
	api := e.Group("/api")
	api.GET("/health", handler.Health)

	RegisterAuth(api, d.Auth, d.RateLimit)
	RegisterCatalog(api, d.Catalog, d.Cache)
	RegisterBookings(api, d.Bookings, d.Verifier)
	RegisterAdmin(api, d.Admin, d.Verifier)
}

func optional(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := make([]echo.MiddlewareFunc, 0, len(mw))
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
