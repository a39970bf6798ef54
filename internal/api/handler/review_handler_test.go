package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

type stubReviewRepo struct {
	created  *domain.Review
	lastBase bson.M
}

func (r *stubReviewRepo) Create(_ context.Context, doc *domain.Review) (*domain.Review, error) {
	doc.SetID(primitive.NewObjectID())
	r.created = doc
	return doc, nil
}

func (r *stubReviewRepo) FindByID(_ context.Context, _ string) (*domain.Review, error) {
	return nil, domain.ErrDocumentNotFound
}

func (r *stubReviewRepo) FindAll(_ context.Context, base bson.M, _ url.Values) ([]domain.Review, error) {
	r.lastBase = base
	return nil, nil
}

func (r *stubReviewRepo) UpdateByID(_ context.Context, _ string, _ bson.M) (*domain.Review, error) {
	return nil, domain.ErrDocumentNotFound
}

func (r *stubReviewRepo) DeleteByID(_ context.Context, _ string) error {
	return domain.ErrDocumentNotFound
}

func TestReviewHandler_CreateOne_DefaultsFromPathAndPrincipal(t *testing.T) {
	e := echo.New()
	repo := &stubReviewRepo{}
	h := NewReviewHandler(repo)

	tourID := primitive.NewObjectID()
	author := &domain.User{ID: primitive.NewObjectID(), Name: "Alice", Role: domain.RoleUser}

	req := jsonRequest(http.MethodPost, "/", `{"review":"Loved it","rating":5}`)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("tourId")
	c.SetParamValues(tourID.Hex())
	c.Set(CurrentUserKey, author)

	if err := h.CreateOne()(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if repo.created.Tour != tourID {
		t.Fatalf("tour = %s, want %s", repo.created.Tour.Hex(), tourID.Hex())
	}
	if repo.created.User != author.ID {
		t.Fatalf("user = %s, want %s", repo.created.User.Hex(), author.ID.Hex())
	}
}

func TestReviewHandler_CreateOne_RequiresPrincipal(t *testing.T) {
	e := echo.New()
	h := NewReviewHandler(&stubReviewRepo{})

	req := jsonRequest(http.MethodPost, "/", `{"review":"Loved it","rating":5}`)
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.CreateOne()(c); err != domain.ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestReviewHandler_GetAll_NestedTourFilter(t *testing.T) {
	e := echo.New()
	repo := &stubReviewRepo{}
	h := NewReviewHandler(repo)

	tourID := primitive.NewObjectID()
	req := jsonRequest(http.MethodGet, "/", "")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("tourId")
	c.SetParamValues(tourID.Hex())

	if err := h.GetAll()(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if repo.lastBase["tour"] != tourID {
		t.Fatalf("base filter = %v, want tour=%s", repo.lastBase, tourID.Hex())
	}
}

func TestReviewHandler_GetAll_Standalone(t *testing.T) {
	e := echo.New()
	repo := &stubReviewRepo{}
	h := NewReviewHandler(repo)

	req := jsonRequest(http.MethodGet, "/", "")
	c := e.NewContext(req, httptest.NewRecorder())

	if err := h.GetAll()(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if len(repo.lastBase) != 0 {
		t.Fatalf("expected empty base filter, got %v", repo.lastBase)
	}
}
