package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

const collectionTours = "tours"

// TourRepository extends the generic repository with slug lookup and the
// explicit populate spec for guides and reviews.
type TourRepository struct {
	*Repository[domain.Tour, *domain.Tour]
	users   *mongo.Collection
	reviews *mongo.Collection
}

func NewTourRepository(db *mongo.Database) *TourRepository {
	return &TourRepository{
		Repository: NewRepository[domain.Tour, *domain.Tour](
			db.Collection(collectionTours), domain.TourBaseFilter),
		users:   db.Collection(collectionUsers),
		reviews: db.Collection(collectionReviews),
	}
}

// FindBySlug fetches a tour for the rendered detail page.
func (r *TourRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tour, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := domain.TourBaseFilter()
	filter["slug"] = slug

	var tour domain.Tour
	if err := r.coll.FindOne(ctx, filter).Decode(&tour); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTourNotFound
		}
		return nil, err
	}
	tour.Derive()
	return &tour, nil
}

// Populate eager-loads the relations named in spec onto tour.
func (r *TourRepository) Populate(ctx context.Context, tour *domain.Tour, spec domain.TourPopulate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if spec.Guides && len(tour.Guides) > 0 {
		filter := domain.UserBaseFilter()
		filter["_id"] = bson.M{"$in": tour.Guides}
		cur, err := r.users.Find(ctx, filter)
		if err != nil {
			return err
		}
		if err := cur.All(ctx, &tour.GuideProfiles); err != nil {
			return err
		}
	}

	if spec.Reviews {
		cur, err := r.reviews.Find(ctx, bson.M{"tour": tour.ID})
		if err != nil {
			return err
		}
		if err := cur.All(ctx, &tour.Reviews); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIndexes creates the indexes the tour queries rely on. The unique
// name index backs the uniqueness invariant.
func (r *TourRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}, {Key: "ratingsAverage", Value: -1}}},
		{Keys: bson.D{{Key: "startLocation", Value: "2dsphere"}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
