package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking records a purchased (or pending) tour seat.
type Booking struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Tour  primitive.ObjectID `json:"tour" bson:"tour" validate:"required"`
	User  primitive.ObjectID `json:"user" bson:"user" validate:"required"`
	Price float64            `json:"price" bson:"price" validate:"required,gt=0"`

	// Paid is a pointer so a payload that explicitly sends false is
	// distinguishable from one that omits the field.
	Paid      *bool     `json:"paid" bson:"paid"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func (b *Booking) SetID(id primitive.ObjectID) { b.ID = id }

func (b *Booking) Normalize() error {
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	if b.Paid == nil {
		paid := true
		b.Paid = &paid
	}
	return nil
}

func (b *Booking) Validate() error {
	return runValidation(b)
}

// BookingBaseFilter applies no default restriction.
func BookingBaseFilter() bson.M { return bson.M{} }
