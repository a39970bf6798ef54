package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// TourHandler handles HTTP requests for tour resources. CRUD comes from the
// generic factory; tour detail additionally eager-loads guides and reviews.
type TourHandler struct {
	crud *CRUD[domain.Tour]
	repo ports.TourRepository
}

func NewTourHandler(repo ports.TourRepository) *TourHandler {
	return &TourHandler{crud: NewCRUD[domain.Tour](repo), repo: repo}
}

// GetAll lists tours through the query-feature chain. Secret tours never
// appear regardless of the request parameters.
//
// @Summary      List tours
// @Tags         tours
// @Produce      json
// @Param        sort    query     string  false  "Comma-separated sort fields, - prefix for descending"
// @Param        fields  query     string  false  "Comma-separated projection"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  envelope
// @Router       /api/v1/tours [get]
func (h *TourHandler) GetAll() echo.HandlerFunc {
	return h.crud.GetAll(nil)
}

// GetOne fetches one tour with its guides and reviews populated.
//
// @Summary      Get a tour
// @Tags         tours
// @Produce      json
// @Param        id   path      string  true  "Tour id"
// @Success      200  {object}  envelope
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/tours/{id} [get]
func (h *TourHandler) GetOne() echo.HandlerFunc {
	return h.crud.GetOne(func(c echo.Context, tour *domain.Tour) error {
		return h.repo.Populate(c.Request().Context(), tour, domain.TourPopulate{
			Guides:  true,
			Reviews: true,
		})
	})
}

// CreateOne persists a new tour.
//
// @Summary      Create a tour
// @Tags         tours
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Tour  true  "Tour"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/tours [post]
func (h *TourHandler) CreateOne() echo.HandlerFunc {
	return h.crud.CreateOne()
}

// UpdateOne applies a partial tour update with validation re-run.
func (h *TourHandler) UpdateOne() echo.HandlerFunc {
	return h.crud.UpdateOne()
}

// DeleteOne removes a tour permanently.
func (h *TourHandler) DeleteOne() echo.HandlerFunc {
	return h.crud.DeleteOne()
}

// AliasTopTours presets the query for the "top 5 cheap" listing before the
// regular GetAll runs.
func AliasTopTours(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Request().URL.RawQuery = "limit=5&sort=-ratingsAverage,price&fields=name,price,ratingsAverage,summary,difficulty"
		return next(c)
	}
}
