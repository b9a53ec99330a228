package repository

import (
	"context"
	"log/slog"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ProductsCollection = "products"

// ProductRepository stores the catalog
type ProductRepository struct {
	docs *Collection[models.Product, *models.Product]
}

func NewProductRepository(db *mongo.Database, log *slog.Logger) *ProductRepository {
	return &ProductRepository{
		docs: newCollection[models.Product](db.Collection(ProductsCollection), log,
			[]string{"name", "description", "category", "tags"}, nil),
	}
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	if err := r.docs.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	return r.docs.FindOne(ctx, bson.M{"_id": id}, nil)
}

// FindByIDs returns the products among ids that exist, in no particular order
func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	return r.docs.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *ProductRepository) Paginate(ctx context.Context, q models.ProductQuery) (*models.Page[models.Product], error) {
	var defaultFilter bson.M
	if q.OnlyActive {
		defaultFilter = bson.M{"isActive": true}
	}

	var filter bson.M
	if q.Category != "" {
		filter = bson.M{"category": q.Category}
	}

	return r.docs.Paginate(ctx, PaginateOptions{
		DefaultFilter: defaultFilter,
		Filter:        filter,
		Sort:          bson.D{{Key: "name", Value: 1}},
		Query:         q.PageQuery,
	})
}

func (r *ProductRepository) Update(ctx context.Context, id primitive.ObjectID, in models.UpdateProductInput) (*models.Product, error) {
	update, err := r.docs.setUpdate(in)
	if err != nil {
		return nil, err
	}
	return r.docs.FindOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.docs.DeleteOne(ctx, bson.M{"_id": id})
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	return r.docs.Count(ctx, bson.M{})
}
