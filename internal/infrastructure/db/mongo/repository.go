package mongo

import (
	"context"
	"errors"
	"net/url"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/natours/tour-booking-api/internal/core/domain"
)

// Document is the contract every persisted entity satisfies through its
// pointer type. The repository drives the explicit lifecycle pipeline
// (normalize → validate → persist) instead of relying on implicit hooks.
type Document[T any] interface {
	*T
	SetID(primitive.ObjectID)
	Normalize() error
	Validate() error
}

// derivable entities compute response-only fields after a load.
type derivable interface {
	Derive()
}

// Repository is the generic Mongo-backed implementation of
// ports.Repository. The base filter keeps soft-deleted and secret documents
// out of every default read.
type Repository[T any, PT Document[T]] struct {
	coll       *mongo.Collection
	baseFilter func() bson.M
}

// NewRepository wraps coll. baseFilter may be nil when the entity has no
// default restriction.
func NewRepository[T any, PT Document[T]](coll *mongo.Collection, baseFilter func() bson.M) *Repository[T, PT] {
	if baseFilter == nil {
		baseFilter = func() bson.M { return bson.M{} }
	}
	return &Repository[T, PT]{coll: coll, baseFilter: baseFilter}
}

// Create runs the lifecycle pipeline and inserts the document, returning it
// with its generated identifier.
func (r *Repository[T, PT]) Create(ctx context.Context, doc *T) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pt := PT(doc)
	if err := pt.Normalize(); err != nil {
		return nil, err
	}
	if err := pt.Validate(); err != nil {
		return nil, err
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.Conflict("Duplicate field value, please use another value!")
		}
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		pt.SetID(oid)
	}
	postLoad(doc)
	return doc, nil
}

// FindByID fetches one document by identifier, honoring the base filter.
func (r *Repository[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := r.idFilter(id)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	postLoad(&doc)
	return &doc, nil
}

// FindAll executes the full query-feature chain over the request parameters
// on top of base and the default filter.
func (r *Repository[T, PT]) FindAll(ctx context.Context, base bson.M, query url.Values) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	combined := r.baseFilter()
	for k, v := range base {
		combined[k] = v
	}

	filter, opts := NewFeatures(combined, query).
		Filter().
		Sort().
		LimitFields().
		Paginate().
		Build()

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := make([]T, 0)
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		postLoad(&docs[i])
	}
	return docs, nil
}

// UpdateByID merges patch into the stored document, re-runs the lifecycle
// pipeline and replaces the document atomically by identifier.
func (r *Repository[T, PT]) UpdateByID(ctx context.Context, id string, patch bson.M) (*T, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := r.idFilter(id)
	if err != nil {
		return nil, err
	}

	var doc T
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}

	if err := mergePatch(&doc, patch); err != nil {
		return nil, err
	}

	pt := PT(&doc)
	if err := pt.Normalize(); err != nil {
		return nil, err
	}
	if err := pt.Validate(); err != nil {
		return nil, err
	}

	if _, err := r.coll.ReplaceOne(ctx, filter, &doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.Conflict("Duplicate field value, please use another value!")
		}
		return nil, err
	}
	postLoad(&doc)
	return &doc, nil
}

// DeleteByID removes the document permanently.
func (r *Repository[T, PT]) DeleteByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := r.idFilter(id)
	if err != nil {
		return err
	}

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *Repository[T, PT]) idFilter(id string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.BadRequest("Invalid id: " + id)
	}
	filter := r.baseFilter()
	filter["_id"] = oid
	return filter, nil
}

// mergePatch overlays the fields present in patch onto doc. Identifier
// fields are never patchable.
func mergePatch[T any](doc *T, patch bson.M) error {
	delete(patch, "_id")
	delete(patch, "id")
	raw, err := bson.Marshal(patch)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, doc)
}

func postLoad(doc any) {
	if d, ok := doc.(derivable); ok {
		d.Derive()
	}
}
