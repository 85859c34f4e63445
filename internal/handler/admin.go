package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// AdminHandler serves the audit listings. Routes must be mounted behind
// JWTAuth and RequireRole("admin").
type AdminHandler struct {
	accounts Accounts
	bookings Bookings
	logger   zerolog.Logger
}

func NewAdminHandler(accounts Accounts, bookings Bookings, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{accounts: accounts, bookings: bookings, logger: logger}
}

// Users lists every account without password hashes.
func (h *AdminHandler) Users(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	users, err := h.accounts.ListUsers(ctx)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if users == nil {
		users = []model.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Bookings lists every booking with its owner and screening.
func (h *AdminHandler) Bookings(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	items, err := h.bookings.ListAll(ctx)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if items == nil {
		items = []model.AdminBookingView{}
	}
	return c.JSON(http.StatusOK, items)
}
