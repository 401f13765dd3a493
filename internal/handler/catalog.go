package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/powermilk/cinema-reservation/internal/service"
)

// CatalogHandler exposes the read-only browse surface: the movie
// catalog, the screening schedule and per-screening seat maps. These
// endpoints sit behind the response cache, so a short staleness
// window on availability is expected; the reservation endpoint is the
// source of truth and rejects stale selections.
type CatalogHandler struct {
	Catalog      *service.CatalogService
	Reservations *service.ReservationService
}

// NewCatalogHandler constructs a CatalogHandler. Both services must
// be non-nil.
func NewCatalogHandler(catalog *service.CatalogService, reservations *service.ReservationService) *CatalogHandler {
	if catalog == nil || reservations == nil {
		panic("nil service passed to NewCatalogHandler")
	}
	return &CatalogHandler{Catalog: catalog, Reservations: reservations}
}

// ListMovies handles GET /v1/movies.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	movies, err := h.Catalog.ListMovies(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, movies)
}

// GetMovie handles GET /v1/movies/:id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	movie, err := h.Catalog.GetMovie(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, movie)
}

// ListScreeningsByMovie handles GET /v1/movies/:id/screenings.
func (h *CatalogHandler) ListScreeningsByMovie(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
	}
	screenings, err := h.Catalog.ListScreeningsByMovie(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, screenings)
}

// ListScreenings handles GET /v1/screenings.
func (h *CatalogHandler) ListScreenings(c echo.Context) error {
	screenings, err := h.Catalog.ListScreenings(c.Request().Context())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, screenings)
}

// GetScreening handles GET /v1/screenings/:id.
func (h *CatalogHandler) GetScreening(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	details, err := h.Catalog.GetScreeningDetails(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

// GetSeatMap handles GET /v1/screenings/:id/seats. Every seat of the
// hall is returned with an availability flag.
func (h *CatalogHandler) GetSeatMap(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	seats, err := h.Catalog.GetSeatMap(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, seats)
}

// GetAvailableSeats handles GET /v1/screenings/:id/seats/available,
// returning only the seats still free for the screening.
func (h *CatalogHandler) GetAvailableSeats(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid screening id"})
	}
	seats, err := h.Reservations.GetAvailableSeats(c.Request().Context(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, seats)
}
