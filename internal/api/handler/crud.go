package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// envelope is the canonical success body: {status, data:{data:...}} with a
// results count on collections and a token on auth responses.
type envelope struct {
	Status  string `json:"status"`
	Results *int   `json:"results,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respond(c echo.Context, code int, doc any) error {
	return c.JSON(code, envelope{Status: "success", Data: map[string]any{"data": doc}})
}

func respondList[T any](c echo.Context, docs []T) error {
	n := len(docs)
	return c.JSON(http.StatusOK, envelope{
		Status:  "success",
		Results: &n,
		Data:    map[string]any{"data": docs},
	})
}

func respondToken(c echo.Context, code int, token string, user *domain.User) error {
	return c.JSON(code, envelope{
		Status: "success",
		Token:  token,
		Data:   map[string]any{"user": user},
	})
}

// CRUD produces the five standard handlers for one entity type. Side
// effects are limited to the single repository call each handler makes.
type CRUD[T any] struct {
	repo ports.Repository[T]
}

func NewCRUD[T any](repo ports.Repository[T]) *CRUD[T] {
	return &CRUD[T]{repo: repo}
}

// CreateOne persists a new record from the request body and responds 201.
// Optional pre funcs fill defaults (e.g. path/principal references) before
// the lifecycle pipeline runs.
func (h *CRUD[T]) CreateOne(pre ...func(echo.Context, *T) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc := new(T)
		if err := c.Bind(doc); err != nil {
			return domain.BadRequest("invalid payload")
		}
		for _, fn := range pre {
			if err := fn(c, doc); err != nil {
				return err
			}
		}

		created, err := h.repo.Create(c.Request().Context(), doc)
		if err != nil {
			return err
		}
		return respond(c, http.StatusCreated, created)
	}
}

// GetOne fetches by identifier. Optional load funcs eager-load related
// documents onto the result.
func (h *CRUD[T]) GetOne(load ...func(echo.Context, *T) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		doc, err := h.repo.FindByID(c.Request().Context(), c.Param("id"))
		if err != nil {
			return err
		}
		for _, fn := range load {
			if err := fn(c, doc); err != nil {
				return err
			}
		}
		return respond(c, http.StatusOK, doc)
	}
}

// GetAll lists documents through the query-feature chain. base derives an
// extra filter from the request, e.g. the tour id of a nested review
// listing; nil means no extra filter.
func (h *CRUD[T]) GetAll(base func(echo.Context) bson.M) echo.HandlerFunc {
	return func(c echo.Context) error {
		filter := bson.M{}
		if base != nil {
			filter = base(c)
		}

		docs, err := h.repo.FindAll(c.Request().Context(), filter, c.QueryParams())
		if err != nil {
			return err
		}
		return respondList(c, docs)
	}
}

// UpdateOne applies a partial update by identifier with validation re-run.
// Fields named in strip are dropped from the patch before it is applied.
func (h *CRUD[T]) UpdateOne(strip ...string) echo.HandlerFunc {
	return func(c echo.Context) error {
		patch := bson.M{}
		if err := c.Bind(&patch); err != nil {
			return domain.BadRequest("invalid payload")
		}
		for _, field := range strip {
			delete(patch, field)
		}

		doc, err := h.repo.UpdateByID(c.Request().Context(), c.Param("id"), patch)
		if err != nil {
			return err
		}
		return respond(c, http.StatusOK, doc)
	}
}

// DeleteOne removes by identifier and responds 204 with an empty body.
func (h *CRUD[T]) DeleteOne() echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := h.repo.DeleteByID(c.Request().Context(), c.Param("id")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}
