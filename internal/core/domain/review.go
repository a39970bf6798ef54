package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is a rating left by a user on a tour.
type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Review    string             `json:"review" bson:"review" validate:"required"`
	Rating    float64            `json:"rating" bson:"rating" validate:"required,gte=1,lte=5"`
	Tour      primitive.ObjectID `json:"tour" bson:"tour" validate:"required"`
	User      primitive.ObjectID `json:"user" bson:"user" validate:"required"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`

	// Populated on demand, never persisted.
	Author *User `json:"author,omitempty" bson:"-"`
}

func (r *Review) SetID(id primitive.ObjectID) { r.ID = id }

func (r *Review) Normalize() error {
	r.Review = strings.TrimSpace(r.Review)
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (r *Review) Validate() error {
	return runValidation(r)
}

// ReviewBaseFilter applies no default restriction.
func ReviewBaseFilter() bson.M { return bson.M{} }
