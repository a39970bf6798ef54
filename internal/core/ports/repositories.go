package ports

import (
	"context"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

// Repository is the uniform persistence contract the CRUD factory is built
// on. FindAll runs the query-feature chain (filter, sort, project, paginate)
// over the request's query parameters on top of the base filter.
type Repository[T any] interface {
	Create(ctx context.Context, doc *T) (*T, error)
	FindByID(ctx context.Context, id string) (*T, error)
	FindAll(ctx context.Context, base bson.M, query url.Values) ([]T, error)
	UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}

// TourRepository adds tour-specific lookups on top of the CRUD contract.
type TourRepository interface {
	Repository[domain.Tour]
	FindBySlug(ctx context.Context, slug string) (*domain.Tour, error)
	Populate(ctx context.Context, tour *domain.Tour, spec domain.TourPopulate) error
}

// UserRepository adds the auth-flow lookups. FindByEmail and
// FindByResetToken include the normally hidden password fields.
type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}
