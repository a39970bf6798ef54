package handler

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// ReviewHandler handles review CRUD, standalone and nested under a tour.
type ReviewHandler struct {
	crud *CRUD[domain.Review]
}

func NewReviewHandler(repo ports.Repository[domain.Review]) *ReviewHandler {
	return &ReviewHandler{crud: NewCRUD[domain.Review](repo)}
}

// GetAll lists reviews; under /tours/:tourId/reviews only that tour's.
//
// @Summary      List reviews
// @Tags         reviews
// @Produce      json
// @Param        tourId  path      string  false  "Restrict to one tour"
// @Success      200     {object}  envelope
// @Router       /api/v1/reviews [get]
func (h *ReviewHandler) GetAll() echo.HandlerFunc {
	return h.crud.GetAll(func(c echo.Context) bson.M {
		if tourID := c.Param("tourId"); tourID != "" {
			if oid, err := primitive.ObjectIDFromHex(tourID); err == nil {
				return bson.M{"tour": oid}
			}
		}
		return bson.M{}
	})
}

// GetOne fetches a single review by id.
func (h *ReviewHandler) GetOne() echo.HandlerFunc {
	return h.crud.GetOne()
}

// CreateOne persists a review. Tour and author default from the path and
// the authenticated principal when the body leaves them unset.
//
// @Summary      Create a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.Review  true  "Review"
// @Success      201   {object}  envelope
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/tours/{tourId}/reviews [post]
func (h *ReviewHandler) CreateOne() echo.HandlerFunc {
	return h.crud.CreateOne(func(c echo.Context, review *domain.Review) error {
		if review.Tour.IsZero() {
			if tourID := c.Param("tourId"); tourID != "" {
				oid, err := primitive.ObjectIDFromHex(tourID)
				if err != nil {
					return domain.BadRequest("Invalid id: " + tourID)
				}
				review.Tour = oid
			}
		}
		user, err := CurrentUser(c)
		if err != nil {
			return err
		}
		review.User = user.ID
		return nil
	})
}

// UpdateOne patches a review; the references stay immutable.
func (h *ReviewHandler) UpdateOne() echo.HandlerFunc {
	return h.crud.UpdateOne("tour", "user")
}

// DeleteOne removes a review.
func (h *ReviewHandler) DeleteOne() echo.HandlerFunc {
	return h.crud.DeleteOne()
}
