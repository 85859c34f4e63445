package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/gold-cinema/internal/model"
	"github.com/iliyamo/gold-cinema/internal/repository"
)

// Catalog reads screenings.
type Catalog interface {
	List(ctx context.Context) ([]model.Screening, error)
	GetByID(ctx context.Context, id string) (model.Screening, error)
	Search(ctx context.Context, q repository.ScreeningSearchQuery) ([]model.Screening, int64, error)
}

// CatalogHandler serves the public movie listing.
type CatalogHandler struct {
	catalog Catalog
	logger  zerolog.Logger
}

func NewCatalogHandler(catalog Catalog, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, logger: logger}
}

// List returns all screenings ordered by title.
func (h *CatalogHandler) List(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	items, err := h.catalog.List(ctx)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	if items == nil {
		items = []model.Screening{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one screening.
func (h *CatalogHandler) Get(c echo.Context) error {
	ctx, cancel := requestCtx(c)
	defer cancel()
	s, err := h.catalog.GetByID(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, s)
}

// Search filters the catalog by title substring and category.
// Query: title, category, page (default 1), page_size (default 20, max 100).
// title is matched literally, % and _ included.
func (h *CatalogHandler) Search(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	page = min(max(page, 1), repository.MaxSearchPage)
	ps, _ := strconv.Atoi(c.QueryParam("page_size"))
	if ps < 1 {
		ps = 20
	}
	if ps > 100 {
		ps = 100
	}
	q := repository.ScreeningSearchQuery{
		Title:    strings.TrimSpace(c.QueryParam("title")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Page:     page,
		PageSize: ps,
	}

	ctx, cancel := requestCtx(c)
	defer cancel()
	items, total, err := h.catalog.Search(ctx, q)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data":      items,
		"total":     total,
		"page":      page,
		"page_size": ps,
	})
}
