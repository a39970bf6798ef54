package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// ViewHandler serves the server-rendered pages.
type ViewHandler struct {
	tours ports.TourRepository
}

func NewViewHandler(tours ports.TourRepository) *ViewHandler {
	return &ViewHandler{tours: tours}
}

// Overview renders the landing page with every visible tour.
func (h *ViewHandler) Overview(c echo.Context) error {
	tours, err := h.tours.FindAll(c.Request().Context(), domain.TourBaseFilter(), url.Values{})
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, "overview", tours)
}

// Tour renders a single tour page looked up by slug, with its guides and
// reviews attached.
func (h *ViewHandler) Tour(c echo.Context) error {
	ctx := c.Request().Context()

	tour, err := h.tours.FindBySlug(ctx, c.Param("slug"))
	if err != nil {
		return err
	}
	if err := h.tours.Populate(ctx, tour, domain.TourPopulate{Guides: true, Reviews: true}); err != nil {
		return err
	}
	return c.Render(http.StatusOK, "tour", tour)
}
