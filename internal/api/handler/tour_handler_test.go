package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

func TestAliasTopTours_PresetsQuery(t *testing.T) {
	e := echo.New()
	repo := newStubTourRepo()
	crud := NewCRUD[domain.Tour](repo)

	req := jsonRequest(http.MethodGet, "/api/v1/tours/top-5-cheap", "")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := AliasTopTours(crud.GetAll(nil))(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	if got := repo.lastQuery.Get("limit"); got != "5" {
		t.Fatalf("limit = %q, want 5", got)
	}
	if got := repo.lastQuery.Get("sort"); got != "-ratingsAverage,price" {
		t.Fatalf("sort = %q", got)
	}
	if got := repo.lastQuery.Get("fields"); got != "name,price,ratingsAverage,summary,difficulty" {
		t.Fatalf("fields = %q", got)
	}
}
