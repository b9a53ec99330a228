package services

import (
	"context"
	"fmt"
	"testing"

	"go-storefront/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

func TestCreateOrder_GuestCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.addProduct(t, "P1", 10)

	order, err := f.orders.Create(ctx, models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p1.ID.Hex(), Quantity: 2}},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	})
	require.NoError(t, err)

	assert.Equal(t, 20.0, order.TotalAmount)
	assert.Equal(t, "TRK-20240315-0001", order.TrackingNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 10.0, order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, order.ID, order.Items[0].Order)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "P1", order.Items[0].Product.Name)
	assert.Equal(t, []primitive.ObjectID{order.Items[0].ID}, order.Order.Items)

	require.NotNil(t, order.ShippingAddress)
	assert.Equal(t, "1 Main St", order.ShippingAddress.AddressLine1)
	assert.Equal(t, 1, f.store.ShippingAddresses().Len())
	assert.Equal(t, 1, f.store.OrderItems().Len())

	require.NotNil(t, order.User)
	assert.Equal(t, "a@b.com", order.User.Email)
	assert.Equal(t, models.RoleCustomer, order.User.Role)
	assert.False(t, order.User.IsActive)
	assert.Empty(t, order.User.Password)

	assert.Contains(t, f.mailer.confirmations, "TRK-20240315-0001")
	assert.Equal(t, []string{"a@b.com"}, f.mailer.confirmedTo)
}

func TestCreateOrder_SequenceAdvancesWithinDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	in := models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	}
	first, err := f.orders.Create(ctx, in)
	require.NoError(t, err)
	second, err := f.orders.Create(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, "TRK-20240315-0001", first.TrackingNumber)
	assert.Equal(t, "TRK-20240315-0002", second.TrackingNumber)
}

func TestCreateOrder_UsesServerPrice(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "Shirt", 29.99)
	mug := f.addProduct(t, "Mug", 0.1)

	order, err := f.orders.Create(context.Background(), models.CreateOrderInput{
		Items: []models.OrderItemInput{
			{Product: p.ID.Hex(), Quantity: 3, Price: 0.01},
			{Product: mug.ID.Hex(), Quantity: 3, Price: 1000},
		},
		ShippingAddress: shipping("buyer@example.com", "2 High St"),
	})
	require.NoError(t, err)

	assert.Equal(t, 90.27, order.TotalAmount)
	for _, it := range order.Items {
		switch it.Product.ID {
		case p.ID:
			assert.Equal(t, 29.99, it.Price)
		case mug.ID:
			assert.Equal(t, 0.1, it.Price)
		}
	}
}

func TestCreateOrder_MissingProducts(t *testing.T) {
	f := newFixture(t)
	known := f.addProduct(t, "Known", 5)
	missingA := primitive.NewObjectID()
	missingB := primitive.NewObjectID()

	_, err := f.orders.Create(context.Background(), models.CreateOrderInput{
		Items: []models.OrderItemInput{
			{Product: missingA.Hex(), Quantity: 1},
			{Product: known.ID.Hex(), Quantity: 1},
			{Product: missingB.Hex(), Quantity: 1},
			{Product: missingA.Hex(), Quantity: 4},
		},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var missing *MissingProductsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{missingA.Hex(), missingB.Hex()}, missing.IDs)

	page, err := f.store.Orders().Paginate(context.Background(), models.OrderQuery{})
	require.NoError(t, err)
	assert.Zero(t, page.Pagination.Total)
}

func TestCreateOrder_ReusesShippingAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	place := func(email, line1 string) *models.OrderDetails {
		o, err := f.orders.Create(ctx, models.CreateOrderInput{
			Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
			ShippingAddress: shipping(email, line1),
		})
		require.NoError(t, err)
		return o
	}

	first := place("a@b.com", "1 Main St")
	again := place("  A@B.com ", "1 Main St")
	moved := place("a@b.com", "9 Elm Rd")

	assert.Equal(t, first.ShippingAddress.ID, again.ShippingAddress.ID)
	assert.NotEqual(t, first.ShippingAddress.ID, moved.ShippingAddress.ID)
	assert.Equal(t, 2, f.store.ShippingAddresses().Len())
}

func TestCreateOrder_GuestReusesExistingUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	registered, err := f.users.Create(ctx, models.CreateUserInput{
		Name:     "Ada",
		Email:    "a@b.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	order, err := f.orders.Create(ctx, models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	})
	require.NoError(t, err)

	assert.Equal(t, registered.ID, order.Order.User)
	assert.True(t, order.User.IsActive)

	page, err := f.users.FindAll(ctx, models.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Pagination.Total)
}

func TestCreateOrder_ForKnownUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	u, err := f.users.Create(ctx, models.CreateUserInput{Name: "Bo", Email: "bo@example.com", Password: "secret1"})
	require.NoError(t, err)

	order, err := f.orders.Create(ctx, models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("gift@example.com", "1 Main St"),
		User:            u.ID.Hex(),
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, order.Order.User)

	_, err = f.orders.Create(ctx, models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("gift@example.com", "1 Main St"),
		User:            primitive.NewObjectID().Hex(),
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateOrder_Validation(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "P1", 10)

	cases := map[string]models.CreateOrderInput{
		"no items": {ShippingAddress: shipping("a@b.com", "1 Main St")},
		"zero quantity": {
			Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 0}},
			ShippingAddress: shipping("a@b.com", "1 Main St"),
		},
		"bad product id": {
			Items:           []models.OrderItemInput{{Product: "nope", Quantity: 1}},
			ShippingAddress: shipping("a@b.com", "1 Main St"),
		},
		"bad email": {
			Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
			ShippingAddress: shipping("not-an-email", "1 Main St"),
		},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.orders.Create(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateOrder_DuplicateTrackingNumberIsConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)
	f.orders.tracking = fixedTracking("TRK-20240315-0001")

	in := models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	}
	_, err := f.orders.Create(ctx, in)
	require.NoError(t, err)

	_, err = f.orders.Create(ctx, in)
	assert.ErrorIs(t, err, ErrConflict)
}

type fixedTracking string

func (t fixedTracking) Next(context.Context) (string, error) { return string(t), nil }

func TestCreateOrder_ConcurrentGuestsWithAtomicSequence(t *testing.T) {
	f := newFixture(t)
	p := f.addProduct(t, "P1", 10)
	tracking := NewTrackingNumbers("TRK", &counterSequence{})
	tracking.now = f.tracking.now
	f.orders.tracking = tracking

	const n = 20
	results := make([]*models.OrderDetails, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			o, err := f.orders.Create(context.Background(), models.CreateOrderInput{
				Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
				ShippingAddress: shipping("rush@example.com", "1 Main St"),
			})
			results[i] = o
			return err
		})
	}
	require.NoError(t, g.Wait())

	seen := map[string]bool{}
	for _, o := range results {
		assert.False(t, seen[o.TrackingNumber], "duplicate %s", o.TrackingNumber)
		seen[o.TrackingNumber] = true
		assert.Equal(t, results[0].Order.User, o.Order.User)
		assert.Equal(t, results[0].ShippingAddress.ID, o.ShippingAddress.ID)
	}
	assert.Contains(t, seen, fmt.Sprintf("TRK-20240315-%04d", n))
	assert.Equal(t, 1, f.store.ShippingAddresses().Len())
}

func TestOrderService_UpdateSendsStatusEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	order, err := f.orders.Create(ctx, models.CreateOrderInput{
		Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
		ShippingAddress: shipping("a@b.com", "1 Main St"),
	})
	require.NoError(t, err)

	notes := "leave at door"
	_, err = f.orders.Update(ctx, order.ID.Hex(), models.UpdateOrderInput{Notes: &notes})
	require.NoError(t, err)
	assert.Empty(t, f.mailer.statuses)

	shipped := models.OrderStatusShipped
	updated, err := f.orders.Update(ctx, order.ID.Hex(), models.UpdateOrderInput{Status: &shipped})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.Equal(t, notes, updated.Notes)
	require.Len(t, f.mailer.statuses, 1)
	assert.Equal(t, models.OrderStatusShipped, f.mailer.statuses[0].Status)

	bogus := models.OrderStatus("LOST")
	_, err = f.orders.Update(ctx, order.ID.Hex(), models.UpdateOrderInput{Status: &bogus})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.orders.Update(ctx, primitive.NewObjectID().Hex(), models.UpdateOrderInput{Status: &shipped})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderService_ListingAndRemove(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p := f.addProduct(t, "P1", 10)

	place := func(email string) *models.OrderDetails {
		o, err := f.orders.Create(ctx, models.CreateOrderInput{
			Items:           []models.OrderItemInput{{Product: p.ID.Hex(), Quantity: 1}},
			ShippingAddress: shipping(email, "1 Main St"),
		})
		require.NoError(t, err)
		return o
	}
	a1 := place("a@example.com")
	place("a@example.com")
	place("b@example.com")

	all, err := f.orders.FindAll(ctx, models.OrderQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Pagination.Total)

	mine, err := f.orders.FindUserOrders(ctx, a1.Order.User.Hex(), models.PageQuery{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, mine.Pagination.Total)

	_, err = f.orders.FindAll(ctx, models.OrderQuery{Status: "WHATEVER"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.orders.Remove(ctx, a1.ID.Hex()))
	_, err = f.orders.FindOne(ctx, a1.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.orders.Remove(ctx, a1.ID.Hex()), ErrNotFound)

	// items are not cascaded
	assert.Equal(t, 3, f.store.OrderItems().Len())
}
