package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/gold-cinema/internal/handler"
	"github.com/iliyamo/gold-cinema/internal/middleware"
	"github.com/iliyamo/gold-cinema/internal/model"
)

// RegisterBookings mounts the routes available to any signed-in user.
func RegisterBookings(g *echo.Group, h *handler.BookingHandler, v middleware.TokenVerifier) {
	auth := middleware.JWTAuth(v)
	g.POST("/bookings", h.Create, auth)
	g.GET("/my-bookings", h.ListMine, auth)
	g.GET("/bookings/:id/ticket", h.Ticket, auth)
}

// RegisterAdmin mounts the audit routes. JWTAuth always runs before the
// role check so a missing token is a 401, not a 403.
func RegisterAdmin(g *echo.Group, h *handler.AdminHandler, v middleware.TokenVerifier) {
	admin := g.Group("/admin", middleware.JWTAuth(v), middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Users)
	admin.GET("/bookings", h.Bookings)
}
