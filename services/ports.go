package services

import (
	"context"
	"time"

	"go-storefront/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProductRepository interface {
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	Paginate(ctx context.Context, q models.ProductQuery) (*models.Page[models.Product], error)
	Update(ctx context.Context, id primitive.ObjectID, in models.UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) (*models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindCredentials(ctx context.Context, email string) (*models.User, error)
	FindOrCreateByEmail(ctx context.Context, u *models.User) (*models.User, bool, error)
	Paginate(ctx context.Context, q models.PageQuery) (*models.Page[models.User], error)
	Update(ctx context.Context, id primitive.ObjectID, in models.UpdateUserInput) (*models.User, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ShippingAddressRepository interface {
	FindOrCreate(ctx context.Context, a *models.ShippingAddress) (*models.ShippingAddress, bool, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ShippingAddress, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	Paginate(ctx context.Context, q models.OrderQuery) (*models.Page[models.Order], error)
	Update(ctx context.Context, id primitive.ObjectID, in models.UpdateOrderInput) (*models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type OrderItemRepository interface {
	CreateMany(ctx context.Context, items []models.OrderItem) error
	FindByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error)
}

// Sequence hands out the n-th number of a calendar day, starting at 1
type Sequence interface {
	Next(ctx context.Context, day time.Time) (int64, error)
}

// Mailer sends the customer-facing emails
type Mailer interface {
	SendWelcomeEmail(ctx context.Context, toEmail, name string) error
	SendOrderConfirmationEmail(ctx context.Context, toEmail string, order *models.OrderDetails) error
	SendOrderStatusEmail(ctx context.Context, toEmail string, order *models.Order) error
}
