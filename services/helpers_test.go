package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go-storefront/logger"
	"go-storefront/models"
	"go-storefront/repository/memstore"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	mu            sync.Mutex
	welcomes      []string
	confirmations map[string]*models.OrderDetails
	confirmedTo   []string
	statuses      []models.Order
	err           error
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{confirmations: map[string]*models.OrderDetails{}}
}

func (m *fakeMailer) SendWelcomeEmail(_ context.Context, to, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.welcomes = append(m.welcomes, to)
	return m.err
}

func (m *fakeMailer) SendOrderConfirmationEmail(_ context.Context, to string, order *models.OrderDetails) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmations[order.TrackingNumber] = order
	m.confirmedTo = append(m.confirmedTo, to)
	return m.err
}

func (m *fakeMailer) SendOrderStatusEmail(_ context.Context, _ string, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses = append(m.statuses, *order)
	return m.err
}

type fakeTokens struct{}

func (fakeTokens) Generate(u *models.User) (string, error) {
	return "token-" + u.ID.Hex(), nil
}

// counterSequence is an atomic day sequence for concurrency tests
type counterSequence struct{ n atomic.Int64 }

func (c *counterSequence) Next(context.Context, time.Time) (int64, error) {
	return c.n.Add(1), nil
}

var fixedNow = time.Date(2024, time.March, 15, 10, 30, 0, 0, time.Local)

type fixture struct {
	store    *memstore.Store
	mailer   *fakeMailer
	users    *UserService
	products *ProductService
	auth     *AuthService
	orders   *OrderService
	tracking *TrackingNumbers
}

// runNow replaces the background hook so emails are sent before the call returns
func runNow(f func()) { f() }

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memstore.New()
	store.Now = func() time.Time { return fixedNow }
	log := logger.Discard()
	mailer := newFakeMailer()

	users := NewUserService(store.Users(), log)
	users.hashCost = bcrypt.MinCost

	auth := NewAuthService(store.Users(), users, fakeTokens{}, mailer, log)
	auth.background = runNow

	tracking := NewTrackingNumbers("TRK", NewOrderCountSequence(store.Orders()))
	tracking.now = func() time.Time { return fixedNow }

	orders := NewOrderService(OrderDeps{
		Orders:    store.Orders(),
		Items:     store.OrderItems(),
		Products:  store.Products(),
		Addresses: store.ShippingAddresses(),
		Users:     store.Users(),
		UserSvc:   users,
		Tracking:  tracking,
		Mailer:    mailer,
		Log:       log,
	})
	orders.background = runNow

	return &fixture{
		store:    store,
		mailer:   mailer,
		users:    users,
		products: NewProductService(store.Products(), log),
		auth:     auth,
		orders:   orders,
		tracking: tracking,
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64) *models.Product {
	t.Helper()
	p, err := f.store.Products().Create(context.Background(), &models.Product{
		Name:     name,
		Price:    price,
		Quantity: 10,
		IsActive: true,
		Tags:     []string{},
	})
	require.NoError(t, err)
	return p
}

func shipping(email, line1 string) models.ShippingDetails {
	return models.ShippingDetails{
		FullName:     "Ada Lovelace",
		Email:        email,
		City:         "London",
		Country:      "UK",
		PostalCode:   "N1 9GU",
		AddressLine1: line1,
		State:        "Greater London",
	}
}
