package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/api/metrics"
	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// BookingHandler handles booking CRUD and payment session creation.
type BookingHandler struct {
	crud     *CRUD[domain.Booking]
	tours    ports.TourRepository
	payments ports.PaymentProvider
}

func NewBookingHandler(repo ports.Repository[domain.Booking], tours ports.TourRepository, payments ports.PaymentProvider) *BookingHandler {
	return &BookingHandler{
		crud:     NewCRUD[domain.Booking](repo),
		tours:    tours,
		payments: payments,
	}
}

// CheckoutSession creates a hosted payment session for the tour.
//
// @Summary      Create a checkout session
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        tourId  path      string  true  "Tour id"
// @Success      200     {object}  map[string]any
// @Failure      404     {object}  map[string]string
// @Router       /api/v1/bookings/checkout-session/{tourId} [get]
func (h *BookingHandler) CheckoutSession(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	tour, err := h.tours.FindByID(c.Request().Context(), c.Param("tourId"))
	if err != nil {
		return err
	}

	session, err := h.payments.CheckoutSession(c.Request().Context(), tour, user)
	if err != nil {
		return err
	}

	metrics.CheckoutSessionsTotal.Inc()
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "success",
		"session": session,
	})
}

// GetAll lists bookings.
func (h *BookingHandler) GetAll() echo.HandlerFunc {
	return h.crud.GetAll(nil)
}

// GetOne fetches a booking by id.
func (h *BookingHandler) GetOne() echo.HandlerFunc {
	return h.crud.GetOne()
}

// CreateOne records a booking directly (admin bookkeeping).
func (h *BookingHandler) CreateOne() echo.HandlerFunc {
	return h.crud.CreateOne()
}

// UpdateOne patches a booking.
func (h *BookingHandler) UpdateOne() echo.HandlerFunc {
	return h.crud.UpdateOne()
}

// DeleteOne removes a booking.
func (h *BookingHandler) DeleteOne() echo.HandlerFunc {
	return h.crud.DeleteOne()
}
