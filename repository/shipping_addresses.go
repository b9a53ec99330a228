package repository

import (
	"context"
	"log/slog"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const ShippingAddressesCollection = "shippingaddresses"

type ShippingAddressRepository struct {
	docs *Collection[models.ShippingAddress, *models.ShippingAddress]
}

func NewShippingAddressRepository(db *mongo.Database, log *slog.Logger) *ShippingAddressRepository {
	return &ShippingAddressRepository{
		docs: newCollection[models.ShippingAddress](db.Collection(ShippingAddressesCollection), log, nil, nil),
	}
}

// FindOrCreate reuses the address stored for (email, addressLine1) or inserts a
func (r *ShippingAddressRepository) FindOrCreate(ctx context.Context, a *models.ShippingAddress) (*models.ShippingAddress, bool, error) {
	return r.docs.FindOrCreate(ctx, bson.M{
		"email":        a.Email,
		"addressLine1": a.AddressLine1,
	}, a)
}

func (r *ShippingAddressRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.ShippingAddress, error) {
	return r.docs.FindOne(ctx, bson.M{"_id": id}, nil)
}
