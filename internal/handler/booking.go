package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/middleware"
	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/ticket"
)

// Bookings is the subset of service.BookingService the HTTP layer uses.
type Bookings interface {
	Create(ctx context.Context, userID, username, screeningID string, seats []string) (model.Booking, error)
	ListByOwner(ctx context.Context, userID string) ([]model.BookingView, error)
	GetForOwner(ctx context.Context, bookingID, userID string) (model.BookingView, error)
	ListAll(ctx context.Context) ([]model.AdminBookingView, error)
}

// BookingHandler serves the authenticated booking routes.
type BookingHandler struct {
	bookings Bookings
	logger   zerolog.Logger
}

func NewBookingHandler(bookings Bookings, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger}
}

type createBookingReq struct {
	ScreeningID string   `json:"screening_id"`
	Seats       []string `json:"seats"`
}

// Create books seats for the caller. Seat order is kept as sent.
func (h *BookingHandler) Create(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return writeError(c, h.logger, middleware.ErrUnauthenticated)
	}
	var req createBookingReq
	if err := bindStrict(c, &req); err != nil {
		return writeError(c, h.logger, err)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.bookings.Create(ctx, claims.UserID, claims.Username, req.ScreeningID, req.Seats)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "bookingId": b.ID})
}

// ListMine lists the caller's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return writeError(c, h.logger, middleware.ErrUnauthenticated)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	items, err := h.bookings.ListByOwner(ctx, claims.UserID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if items == nil {
		items = []model.BookingView{}
	}
	return c.JSON(http.StatusOK, items)
}

// Ticket streams a PDF ticket for one of the caller's bookings.
func (h *BookingHandler) Ticket(c echo.Context) error {
	claims := middleware.ClaimsFrom(c)
	if claims == nil {
		return writeError(c, h.logger, middleware.ErrUnauthenticated)
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	b, err := h.bookings.GetForOwner(ctx, c.Param("id"), claims.UserID)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	pdf, err := ticket.Render(b, claims.Username)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="ticket-`+b.ID+`.pdf"`)
	return c.Blob(http.StatusOK, "application/pdf", pdf)
}
