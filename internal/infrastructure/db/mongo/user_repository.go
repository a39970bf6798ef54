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

const collectionUsers = "users"

// UserRepository extends the generic repository with the auth-flow lookups.
// The password hash only ever leaves the process as json:"-", so the
// *WithPassword naming marks intent rather than a separate projection.
type UserRepository struct {
	*Repository[domain.User, *domain.User]
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		Repository: NewRepository[domain.User, *domain.User](
			db.Collection(collectionUsers), domain.UserBaseFilter),
	}
}

// FindByEmail fetches an active user by lowercase email, hash included.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := domain.UserBaseFilter()
	filter["email"] = email

	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDWithPassword fetches a user for password re-verification.
func (r *UserRepository) FindByIDWithPassword(ctx context.Context, id string) (*domain.User, error) {
	return r.FindByID(ctx, id)
}

// FindByResetToken matches the persisted token hash with an unexpired
// deadline. No match means the token is invalid or expired.
func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := domain.UserBaseFilter()
	filter["passwordResetToken"] = tokenHash
	filter["passwordTokenExpiresAt"] = bson.M{"$gt": time.Now().UTC()}

	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return &user, nil
}

// Save persists the user as-is, bypassing the lifecycle pipeline. The auth
// flows use it for token bookkeeping where re-validation must not run.
func (r *UserRepository) Save(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	return err
}

// EnsureIndexes creates the unique email index backing the uniqueness
// invariant, plus the reset-token lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "passwordResetToken", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
