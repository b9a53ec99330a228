package repository

import (
	"context"
	"log/slog"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	OrdersCollection     = "orders"
	OrderItemsCollection = "orderitems"
)

type OrderRepository struct {
	docs *Collection[models.Order, *models.Order]
}

func NewOrderRepository(db *mongo.Database, log *slog.Logger) *OrderRepository {
	return &OrderRepository{
		docs: newCollection[models.Order](db.Collection(OrdersCollection), log,
			[]string{"status", "paymentStatus", "trackingNumber"}, nil),
	}
}

// Create inserts o; a tracking number already in use yields ErrDuplicate
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) (*models.Order, error) {
	if err := r.docs.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return r.docs.FindOne(ctx, bson.M{"_id": id}, nil)
}

func (r *OrderRepository) Paginate(ctx context.Context, q models.OrderQuery) (*models.Page[models.Order], error) {
	filter := bson.M{}
	if !q.User.IsZero() {
		filter["user"] = q.User
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.PaymentStatus != "" {
		filter["paymentStatus"] = q.PaymentStatus
	}

	return r.docs.Paginate(ctx, PaginateOptions{
		Filter: filter,
		Sort:   bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
		Query:  q.PageQuery,
	})
}

func (r *OrderRepository) Update(ctx context.Context, id primitive.ObjectID, in models.UpdateOrderInput) (*models.Order, error) {
	update, err := r.docs.setUpdate(in)
	if err != nil {
		return nil, err
	}
	return r.docs.FindOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// Delete removes the order only; its items stay in place
func (r *OrderRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return r.docs.DeleteOne(ctx, bson.M{"_id": id})
}

func (r *OrderRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.docs.Count(ctx, bson.M{"createdAt": bson.M{"$gte": since}})
}

type OrderItemRepository struct {
	docs *Collection[models.OrderItem, *models.OrderItem]
}

func NewOrderItemRepository(db *mongo.Database, log *slog.Logger) *OrderItemRepository {
	return &OrderItemRepository{
		docs: newCollection[models.OrderItem](db.Collection(OrderItemsCollection), log, nil, nil),
	}
}

func (r *OrderItemRepository) CreateMany(ctx context.Context, items []models.OrderItem) error {
	return r.docs.BulkCreate(ctx, items)
}

func (r *OrderItemRepository) FindByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	return r.docs.Find(ctx, bson.M{"order": orderID})
}
