package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Document is implemented by every stored model through models.Base
type Document interface {
	Stamp(now time.Time)
	GetID() primitive.ObjectID
}

// allFields disables the collection's excluded fields for one read
var allFields = bson.M{}

// Collection provides the CRUD primitives shared by the entity repositories.
// T is the model type, PT its pointer.
type Collection[T any, PT interface {
	*T
	Document
}] struct {
	coll *mongo.Collection
	log  *slog.Logger
	now  func() time.Time

	// searchable fields are matched by Paginate's search filter
	searchable []string
	// excluded fields are projected away unless a read passes its own projection
	excluded []string
}

func newCollection[T any, PT interface {
	*T
	Document
}](coll *mongo.Collection, log *slog.Logger, searchable, excluded []string) *Collection[T, PT] {
	if log == nil {
		log = slog.Default()
	}
	return &Collection[T, PT]{
		coll:       coll,
		log:        log.With("collection", coll.Name()),
		now:        time.Now,
		searchable: searchable,
		excluded:   excluded,
	}
}

// Create stamps and inserts one document
func (c *Collection[T, PT]) Create(ctx context.Context, doc PT) error {
	doc.Stamp(c.now())
	if _, err := c.coll.InsertOne(ctx, doc); err != nil {
		return translate(err)
	}
	return nil
}

// BulkCreate stamps and inserts all documents in one round trip
func (c *Collection[T, PT]) BulkCreate(ctx context.Context, docs []T) error {
	if len(docs) == 0 {
		return nil
	}

	now := c.now()
	batch := make([]interface{}, len(docs))
	for i := range docs {
		PT(&docs[i]).Stamp(now)
		batch[i] = docs[i]
	}

	if _, err := c.coll.InsertMany(ctx, batch); err != nil {
		return translate(err)
	}
	return nil
}

// FindOne returns the first match or ErrNotFound
func (c *Collection[T, PT]) FindOne(ctx context.Context, filter interface{}, projection bson.M) (PT, error) {
	opts := options.FindOne()
	if p := c.projection(projection); len(p) > 0 {
		opts.SetProjection(p)
	}

	var doc T
	if err := c.coll.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			c.log.Warn("document not found", "filter", fmt.Sprint(filter))
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find one: %w", err)
	}
	return &doc, nil
}

// Find returns every match; later options override earlier ones
func (c *Collection[T, PT]) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	base := options.Find()
	if p := c.projection(nil); len(p) > 0 {
		base.SetProjection(p)
	}

	cursor, err := c.coll.Find(ctx, filter, append([]*options.FindOptions{base}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	defer cursor.Close(ctx)

	docs := []T{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return docs, nil
}

// FindOneAndUpdate applies update to the first match and returns the updated document
func (c *Collection[T, PT]) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (PT, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if p := c.projection(nil); len(p) > 0 {
		opts.SetProjection(p)
	}

	var doc T
	if err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		err = translate(err)
		if errors.Is(err, ErrNotFound) {
			c.log.Warn("document not found for update", "filter", fmt.Sprint(filter))
		}
		return nil, err
	}
	return &doc, nil
}

// FindOrCreate returns the document matching filter, inserting doc when none does.
// The insert is an upsert, so two concurrent callers converge on one document as long
// as a unique index covers the filter; the loser of that race retries once.
func (c *Collection[T, PT]) FindOrCreate(ctx context.Context, filter bson.M, doc PT) (PT, bool, error) {
	doc.Stamp(c.now())
	update := bson.M{"$setOnInsert": doc}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	if p := c.projection(nil); len(p) > 0 {
		opts.SetProjection(p)
	}

	for attempt := 0; ; attempt++ {
		var found T
		err := c.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&found)
		if err == nil {
			return &found, PT(&found).GetID() == doc.GetID(), nil
		}
		if mongo.IsDuplicateKeyError(err) && attempt == 0 {
			continue
		}
		return nil, false, translate(err)
	}
}

// DeleteOne removes the first match or returns ErrNotFound
func (c *Collection[T, PT]) DeleteOne(ctx context.Context, filter interface{}) error {
	res, err := c.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete one: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *Collection[T, PT]) Count(ctx context.Context, filter interface{}) (int64, error) {
	n, err := c.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return n, nil
}

// PaginateOptions describes one listing request
type PaginateOptions struct {
	DefaultFilter bson.M
	Filter        bson.M
	Sort          bson.D
	Query         models.PageQuery
}

// Paginate returns one page of documents matching the filters and the search text
func (c *Collection[T, PT]) Paginate(ctx context.Context, p PaginateOptions) (*models.Page[T], error) {
	q := p.Query.Normalize()
	sort := p.Sort
	if len(sort) == 0 {
		sort = bson.D{{Key: "_id", Value: -1}}
	}

	filter := and(p.DefaultFilter, p.Filter, SearchFilter(q.Search, c.searchable))

	docs, err := c.Find(ctx, filter, options.Find().
		SetSort(sort).
		SetSkip(q.Skip()).
		SetLimit(int64(q.Limit)))
	if err != nil {
		return nil, err
	}

	total, err := c.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return models.NewPage(docs, total, q), nil
}

// setUpdate builds a $set from the non-nil fields of an update input
func (c *Collection[T, PT]) setUpdate(fields interface{}) (bson.M, error) {
	raw, err := bson.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}

	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode update: %w", err)
	}
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = c.now()

	return bson.M{"$set": set}, nil
}

func (c *Collection[T, PT]) projection(override bson.M) bson.M {
	if override != nil {
		return override
	}

	projection := bson.M{}
	for _, field := range c.excluded {
		projection[field] = 0
	}
	return projection
}
