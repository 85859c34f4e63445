package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/middleware"
	"github.com/iliyamo/gold-cinema/internal/repository"
	"github.com/iliyamo/gold-cinema/internal/service"
)

// storeTimeout bounds every store call made while serving a request.
const storeTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), storeTimeout)
}

// bindStrict decodes a JSON body into dst rejecting unknown fields, trailing
// data and malformed input.
func bindStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &service.ValidationError{Msg: "request body is required"}
		}
		return &service.ValidationError{Msg: "invalid request body"}
	}
	if dec.More() {
		return &service.ValidationError{Msg: "invalid request body"}
	}
	return nil
}

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and answered with a generic 500.
func writeError(c echo.Context, logger zerolog.Logger, err error) error {
	var (
		verr *service.ValidationError
		cv   *repository.ConstraintViolation
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	case errors.As(err, &cv):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": cv.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid credentials"})
	case errors.Is(err, middleware.ErrUnauthenticated):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
	case errors.Is(err, middleware.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Forbidden"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Booking not found"})
	case errors.Is(err, repository.ErrScreeningNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
	}
	logger.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Server error"})
}
