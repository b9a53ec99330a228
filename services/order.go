package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go-storefront/models"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrackingGenerator produces the tracking number of a new order
type TrackingGenerator interface {
	Next(ctx context.Context) (string, error)
}

// OrderService runs checkout and order administration
type OrderService struct {
	orders     OrderRepository
	items      OrderItemRepository
	products   ProductRepository
	addresses  ShippingAddressRepository
	users      UserRepository
	userSvc    *UserService
	tracking   TrackingGenerator
	mailer     Mailer
	log        *slog.Logger
	background func(func())
}

// OrderDeps groups the collaborators of an OrderService
type OrderDeps struct {
	Orders    OrderRepository
	Items     OrderItemRepository
	Products  ProductRepository
	Addresses ShippingAddressRepository
	Users     UserRepository
	UserSvc   *UserService
	Tracking  TrackingGenerator
	Mailer    Mailer
	Log       *slog.Logger
}

func NewOrderService(d OrderDeps) *OrderService {
	return &OrderService{
		orders:     d.Orders,
		items:      d.Items,
		products:   d.Products,
		addresses:  d.Addresses,
		users:      d.Users,
		userSvc:    d.UserSvc,
		tracking:   d.Tracking,
		mailer:     d.Mailer,
		log:        d.Log,
		background: func(f func()) { go f() },
	}
}

// Create places an order. Without in.User the order is attached to a guest
// user found or created by the shipping email. Prices come from the catalog,
// never from the request.
//
// The steps are independent writes: a failure part way through can leave a
// guest user or shipping address behind without an order.
func (s *OrderService) Create(ctx context.Context, in models.CreateOrderInput) (*models.OrderDetails, error) {
	in.ShippingAddress.Email = normalizeEmail(in.ShippingAddress.Email)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	user, err := s.resolveUser(ctx, in)
	if err != nil {
		return nil, err
	}

	priced, total, err := s.priceItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	sd := in.ShippingAddress
	address, _, err := s.addresses.FindOrCreate(ctx, &models.ShippingAddress{
		FullName:             sd.FullName,
		AddressLine1:         sd.AddressLine1,
		AddressLine2:         sd.AddressLine2,
		City:                 sd.City,
		State:                sd.State,
		Country:              sd.Country,
		PostalCode:           sd.PostalCode,
		PhoneNumber:          sd.PhoneNumber,
		Email:                sd.Email,
		DeliveryInstructions: sd.DeliveryInstructions,
	})
	if err != nil {
		return nil, fmt.Errorf("find or create shipping address: %w", err)
	}

	trackingNumber, err := s.tracking.Next(ctx)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		Base:            models.Base{ID: primitive.NewObjectID()},
		User:            user.ID,
		ShippingAddress: address.ID,
		Items:           make([]primitive.ObjectID, len(priced)),
		TotalAmount:     total.InexactFloat64(),
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		PaymentMethod:   in.PaymentMethod,
		TrackingNumber:  trackingNumber,
		Notes:           in.Notes,
	}
	for i := range priced {
		priced[i].ID = primitive.NewObjectID()
		priced[i].Order = order.ID
		order.Items[i] = priced[i].ID
	}

	if _, err := s.orders.Create(ctx, order); err != nil {
		return nil, conflict(err, "tracking number "+trackingNumber+" already used")
	}
	if err := s.items.CreateMany(ctx, priced); err != nil {
		return nil, fmt.Errorf("create order items for %s: %w", order.ID.Hex(), err)
	}

	s.log.Info("order created",
		"order_id", order.ID.Hex(),
		"tracking_number", trackingNumber,
		"user_id", user.ID.Hex(),
		"total", order.TotalAmount,
	)

	details, err := s.FindOne(ctx, order.ID.Hex())
	if err != nil {
		return nil, err
	}

	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendOrderConfirmationEmail(ctx, sd.Email, details); err != nil {
			s.log.Error("failed to send order confirmation", "email", sd.Email, "err", err)
		}
	})

	return details, nil
}

func (s *OrderService) resolveUser(ctx context.Context, in models.CreateOrderInput) (*models.User, error) {
	if in.User == "" {
		return s.userSvc.CreateGuestUser(ctx, models.GuestUserInput{
			Name:        in.ShippingAddress.FullName,
			Email:       in.ShippingAddress.Email,
			PhoneNumber: in.ShippingAddress.PhoneNumber,
		})
	}

	id, err := parseID("user", in.User)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("User", id, err)
	}
	return u, nil
}

// priceItems checks that every requested product exists and snapshots its price
func (s *OrderService) priceItems(ctx context.Context, items []models.OrderItemInput) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]primitive.ObjectID, 0, len(items))
	requested := make([]primitive.ObjectID, len(items))
	seen := map[primitive.ObjectID]bool{}
	for i, it := range items {
		id, err := parseID(fmt.Sprintf("items[%d].product", i), it.Product)
		if err != nil {
			return nil, decimal.Zero, err
		}
		requested[i] = id
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("find products: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	if len(byID) < len(ids) {
		missing := &MissingProductsError{}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				missing.IDs = append(missing.IDs, id.Hex())
			}
		}
		return nil, decimal.Zero, missing
	}

	total := decimal.Zero
	priced := make([]models.OrderItem, len(items))
	for i, it := range items {
		price := byID[requested[i]].Price
		priced[i] = models.OrderItem{
			Product:  requested[i],
			Quantity: it.Quantity,
			Price:    price,
			Notes:    it.Notes,
		}
		total = total.Add(decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return priced, total, nil
}

// FindOne returns the order with its user, shipping address and items fetched
func (s *OrderService) FindOne(ctx context.Context, hexID string) (*models.OrderDetails, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("Order", id, err)
	}
	return s.details(ctx, order)
}

func (s *OrderService) details(ctx context.Context, order *models.Order) (*models.OrderDetails, error) {
	out := &models.OrderDetails{Order: *order, Items: []models.OrderItemDetails{}}

	user, err := s.users.GetByID(ctx, order.User)
	switch {
	case err == nil:
		out.User = user
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("fetch order user: %w", err)
	}

	address, err := s.addresses.GetByID(ctx, order.ShippingAddress)
	switch {
	case err == nil:
		out.ShippingAddress = address
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("fetch shipping address: %w", err)
	}

	items, err := s.items.FindByOrder(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch order items: %w", err)
	}

	productIDs := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		productIDs = append(productIDs, it.Product)
	}
	products, err := s.products.FindByIDs(ctx, productIDs)
	if err != nil {
		return nil, fmt.Errorf("fetch order products: %w", err)
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	itemByID := make(map[primitive.ObjectID]models.OrderItem, len(items))
	for _, it := range items {
		itemByID[it.ID] = it
	}
	// keep the order's own item ordering, then anything not referenced by it
	for _, itemID := range order.Items {
		if it, ok := itemByID[itemID]; ok {
			out.Items = append(out.Items, models.OrderItemDetails{OrderItem: it, Product: byID[it.Product]})
			delete(itemByID, itemID)
		}
	}
	for _, it := range items {
		if _, ok := itemByID[it.ID]; ok {
			out.Items = append(out.Items, models.OrderItemDetails{OrderItem: it, Product: byID[it.Product]})
		}
	}

	return out, nil
}

// FindAll lists every order for administrators
func (s *OrderService) FindAll(ctx context.Context, q models.OrderQuery) (*models.Page[models.Order], error) {
	q.User = primitive.NilObjectID
	if err := validateInput(struct {
		Status        models.OrderStatus   `validate:"omitempty,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
		PaymentStatus models.PaymentStatus `validate:"omitempty,oneof=PENDING PAID FAILED REFUNDED"`
	}{q.Status, q.PaymentStatus}); err != nil {
		return nil, err
	}
	return s.orders.Paginate(ctx, q)
}

// FindUserOrders lists the orders placed by one user
func (s *OrderService) FindUserOrders(ctx context.Context, userHexID string, q models.PageQuery) (*models.Page[models.Order], error) {
	id, err := parseID("user", userHexID)
	if err != nil {
		return nil, err
	}
	return s.orders.Paginate(ctx, models.OrderQuery{PageQuery: q, User: id})
}

// Update changes order state and emails the customer when status or payment status moves
func (s *OrderService) Update(ctx context.Context, hexID string, in models.UpdateOrderInput) (*models.Order, error) {
	id, err := parseID("id", hexID)
	if err != nil {
		return nil, err
	}
	if err := validateInput(in); err != nil {
		return nil, err
	}

	before, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("Order", id, err)
	}

	after, err := s.orders.Update(ctx, id, in)
	if err != nil {
		return nil, notFound("Order", id, err)
	}

	if after.Status != before.Status || after.PaymentStatus != before.PaymentStatus {
		s.notifyStatus(after)
	}
	return after, nil
}

func (s *OrderService) notifyStatus(order *models.Order) {
	s.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		user, err := s.users.GetByID(ctx, order.User)
		if err != nil {
			s.log.Warn("order status email skipped", "order_id", order.ID.Hex(), "err", err)
			return
		}
		if err := s.mailer.SendOrderStatusEmail(ctx, user.Email, order); err != nil {
			s.log.Error("failed to send order status email", "email", user.Email, "err", err)
		}
	})
}

// Remove deletes the order document; its items are left in place
func (s *OrderService) Remove(ctx context.Context, hexID string) error {
	id, err := parseID("id", hexID)
	if err != nil {
		return err
	}
	return notFound("Order", id, s.orders.Delete(ctx, id))
}
