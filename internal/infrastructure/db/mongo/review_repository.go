package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

const (
	collectionReviews  = "reviews"
	collectionBookings = "bookings"
)

// ReviewRepository is the plain CRUD repository for reviews.
type ReviewRepository struct {
	*Repository[domain.Review, *domain.Review]
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	return &ReviewRepository{
		Repository: NewRepository[domain.Review, *domain.Review](
			db.Collection(collectionReviews), domain.ReviewBaseFilter),
	}
}

// EnsureIndexes enforces one review per user per tour.
func (r *ReviewRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tour", Value: 1}, {Key: "user", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}

// BookingRepository is the plain CRUD repository for bookings.
type BookingRepository struct {
	*Repository[domain.Booking, *domain.Booking]
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{
		Repository: NewRepository[domain.Booking, *domain.Booking](
			db.Collection(collectionBookings), domain.BookingBaseFilter),
	}
}
