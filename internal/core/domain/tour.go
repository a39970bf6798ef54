package domain

import (
	"math"
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Tour difficulty levels.
const (
	DifficultyEasy      = "easy"
	DifficultyMedium    = "medium"
	DifficultyDifficult = "difficult"
)

// GeoPoint is a GeoJSON point with optional presentation fields.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
}

// Waypoint is a stop along the tour itinerary.
type Waypoint struct {
	GeoPoint `bson:",inline"`
	Day      int `json:"day,omitempty" bson:"day,omitempty"`
}

// Tour is the central aggregate: a bookable trip with pricing, ratings,
// itinerary and guide references.
type Tour struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name            string               `json:"name" bson:"name" validate:"required,min=10,max=40"`
	Slug            string               `json:"slug,omitempty" bson:"slug,omitempty"`
	Duration        float64              `json:"duration" bson:"duration" validate:"required,gt=0"`
	MaxGroupSize    int                  `json:"maxGroupSize" bson:"maxGroupSize" validate:"required,gt=0"`
	Difficulty      string               `json:"difficulty" bson:"difficulty" validate:"required,oneof=easy medium difficult"`
	RatingsAverage  float64              `json:"ratingsAverage" bson:"ratingsAverage" validate:"omitempty,gte=1,lte=5"`
	RatingsQuantity int                  `json:"ratingsQuantity" bson:"ratingsQuantity"`
	Price           float64              `json:"price" bson:"price" validate:"required,gt=0"`
	PriceDiscount   float64              `json:"priceDiscount,omitempty" bson:"priceDiscount,omitempty" validate:"omitempty,ltfield=Price"`
	Summary         string               `json:"summary" bson:"summary" validate:"required"`
	Description     string               `json:"description,omitempty" bson:"description,omitempty"`
	ImageCover      string               `json:"imageCover" bson:"imageCover" validate:"required"`
	Images          []string             `json:"images,omitempty" bson:"images,omitempty"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	StartDates      []time.Time          `json:"startDates,omitempty" bson:"startDates,omitempty"`
	SecretTour      bool                 `json:"secretTour,omitempty" bson:"secretTour,omitempty"`
	StartLocation   GeoPoint             `json:"startLocation" bson:"startLocation"`
	Locations       []Waypoint           `json:"locations,omitempty" bson:"locations,omitempty"`
	Guides          []primitive.ObjectID `json:"guides,omitempty" bson:"guides,omitempty"`

	// Populated on demand, never persisted.
	GuideProfiles []User   `json:"guideProfiles,omitempty" bson:"-"`
	Reviews       []Review `json:"reviews,omitempty" bson:"-"`
	DurationWeeks float64  `json:"durationWeeks,omitempty" bson:"-"`
}

// SetID is called by the repository after insertion.
func (t *Tour) SetID(id primitive.ObjectID) { t.ID = id }

// Normalize fills defaults and derived persisted fields before validation.
func (t *Tour) Normalize() error {
	t.Name = strings.TrimSpace(t.Name)
	t.Summary = strings.TrimSpace(t.Summary)
	t.Description = strings.TrimSpace(t.Description)
	t.Slug = Slugify(t.Name)

	if t.RatingsAverage == 0 {
		t.RatingsAverage = 4.5
	}
	t.RatingsAverage = math.Round(t.RatingsAverage*10) / 10

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if t.StartLocation.Type == "" {
		t.StartLocation.Type = "Point"
	}
	for i := range t.Locations {
		if t.Locations[i].Type == "" {
			t.Locations[i].Type = "Point"
		}
	}
	return nil
}

// Validate checks all field constraints, including priceDiscount < price.
func (t *Tour) Validate() error {
	return runValidation(t)
}

// Derive computes response-only fields after a load.
func (t *Tour) Derive() {
	if t.Duration > 0 {
		t.DurationWeeks = t.Duration / 7
	}
}

// TourBaseFilter excludes secret tours from every default listing.
func TourBaseFilter() bson.M {
	return bson.M{"secretTour": bson.M{"$ne": true}}
}

// TourPopulate enumerates which related documents GetOne should load.
type TourPopulate struct {
	Guides  bool
	Reviews bool
}

// Slugify lowercases s and collapses anything that is not a letter or digit
// into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
