// Package memstore keeps every entity in process memory behind the same method
// sets as the MongoDB repositories. Services and handlers are tested against it.
package memstore

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go-storefront/models"
	"go-storefront/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store owns the data of all repositories it hands out
type Store struct {
	mu sync.Mutex

	// Now stamps created and updated times; tests may replace it
	Now func() time.Time

	products  map[primitive.ObjectID]models.Product
	users     map[primitive.ObjectID]models.User
	addresses map[primitive.ObjectID]models.ShippingAddress
	orders    map[primitive.ObjectID]models.Order
	items     map[primitive.ObjectID]models.OrderItem
}

func New() *Store {
	return &Store{
		Now:       time.Now,
		products:  map[primitive.ObjectID]models.Product{},
		users:     map[primitive.ObjectID]models.User{},
		addresses: map[primitive.ObjectID]models.ShippingAddress{},
		orders:    map[primitive.ObjectID]models.Order{},
		items:     map[primitive.ObjectID]models.OrderItem{},
	}
}

func (s *Store) Products() *Products                   { return &Products{s: s} }
func (s *Store) Users() *Users                         { return &Users{s: s} }
func (s *Store) ShippingAddresses() *ShippingAddresses { return &ShippingAddresses{s: s} }
func (s *Store) Orders() *Orders                       { return &Orders{s: s} }
func (s *Store) OrderItems() *OrderItems               { return &OrderItems{s: s} }

// matcher compiles the same pattern the Mongo search filter uses
func matcher(search string) *regexp.Regexp {
	pattern := repository.SearchPattern(search)
	if pattern == "" {
		return nil
	}
	return regexp.MustCompile("(?i)" + pattern)
}

func matchAny(re *regexp.Regexp, values ...string) bool {
	if re == nil {
		return true
	}
	for _, v := range values {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

func page[T any](all []T, q models.PageQuery) *models.Page[T] {
	q = q.Normalize()
	total := int64(len(all))

	start := int(q.Skip())
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return models.NewPage(all[start:end], total, q)
}

// Products

type Products struct{ s *Store }

func (r *Products) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p.Stamp(r.s.Now())
	stored := *p
	stored.Tags = append([]string(nil), p.Tags...)
	r.s.products[p.ID] = stored
	return p, nil
}

func (r *Products) GetByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *Products) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := map[primitive.ObjectID]bool{}
	out := []models.Product{}
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *Products) Paginate(_ context.Context, q models.ProductQuery) (*models.Page[models.Product], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	re := matcher(q.Search)
	var all []models.Product
	for _, p := range r.s.products {
		if q.OnlyActive && !p.IsActive {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if !matchAny(re, append([]string{p.Name, p.Description, p.Category}, p.Tags...)...) {
			continue
		}
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, q.PageQuery), nil
}

func (r *Products) Update(_ context.Context, id primitive.ObjectID, in models.UpdateProductInput) (*models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Quantity != nil {
		p.Quantity = *in.Quantity
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.ImageURL != nil {
		p.ImageURL = *in.ImageURL
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Tags != nil {
		p.Tags = append([]string(nil), (*in.Tags)...)
	}
	p.UpdatedAt = r.s.Now()
	r.s.products[id] = p
	return &p, nil
}

func (r *Products) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.products, id)
	return nil
}

func (r *Products) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.products)), nil
}

// Users

type Users struct{ s *Store }

func (r *Users) emailTaken(email string, except primitive.ObjectID) bool {
	for id, u := range r.s.users {
		if u.Email == email && id != except {
			return true
		}
	}
	return false
}

func redact(u models.User) *models.User {
	u.Password = ""
	return &u
}

func (r *Users) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailTaken(u.Email, primitive.NilObjectID) {
		return nil, fmt.Errorf("%w: email %s", repository.ErrDuplicate, u.Email)
	}
	u.Stamp(r.s.Now())
	r.s.users[u.ID] = *u
	return redact(*u), nil
}

func (r *Users) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return redact(u), nil
}

func (r *Users) byEmail(email string) (models.User, bool) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

func (r *Users) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.byEmail(email)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return redact(u), nil
}

func (r *Users) FindCredentials(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.byEmail(email)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *Users) FindOrCreateByEmail(_ context.Context, u *models.User) (*models.User, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if existing, ok := r.byEmail(u.Email); ok {
		return redact(existing), false, nil
	}
	u.Stamp(r.s.Now())
	r.s.users[u.ID] = *u
	return redact(*u), true, nil
}

func (r *Users) Paginate(_ context.Context, q models.PageQuery) (*models.Page[models.User], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	re := matcher(q.Search)
	var all []models.User
	for _, u := range r.s.users {
		if matchAny(re, u.Name, u.Email, u.PhoneNumber) {
			all = append(all, *redact(u))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID.Hex() > all[j].ID.Hex() })
	return page(all, q), nil
}

func (r *Users) Update(_ context.Context, id primitive.ObjectID, in models.UpdateUserInput) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Email != nil {
		if r.emailTaken(*in.Email, id) {
			return nil, fmt.Errorf("%w: email %s", repository.ErrDuplicate, *in.Email)
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Password != nil {
		u.Password = *in.Password
	}
	if in.Role != nil {
		u.Role = *in.Role
	}
	if in.IsActive != nil {
		u.IsActive = *in.IsActive
	}
	if in.Address != nil {
		u.Address = *in.Address
	}
	if in.City != nil {
		u.City = *in.City
	}
	if in.Country != nil {
		u.Country = *in.Country
	}
	u.UpdatedAt = r.s.Now()
	r.s.users[id] = u
	return redact(u), nil
}

func (r *Users) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// Shipping addresses

type ShippingAddresses struct{ s *Store }

func (r *ShippingAddresses) FindOrCreate(_ context.Context, a *models.ShippingAddress) (*models.ShippingAddress, bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.addresses {
		if existing.Email == a.Email && existing.AddressLine1 == a.AddressLine1 {
			found := existing
			return &found, false, nil
		}
	}
	a.Stamp(r.s.Now())
	r.s.addresses[a.ID] = *a
	created := *a
	return &created, true, nil
}

func (r *ShippingAddresses) GetByID(_ context.Context, id primitive.ObjectID) (*models.ShippingAddress, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.addresses[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

// Len reports how many addresses are stored
func (r *ShippingAddresses) Len() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.addresses)
}

// Orders

type Orders struct{ s *Store }

func (r *Orders) Create(_ context.Context, o *models.Order) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.orders {
		if existing.TrackingNumber == o.TrackingNumber {
			return nil, fmt.Errorf("%w: tracking number %s", repository.ErrDuplicate, o.TrackingNumber)
		}
	}
	o.Stamp(r.s.Now())
	stored := *o
	stored.Items = append([]primitive.ObjectID(nil), o.Items...)
	r.s.orders[o.ID] = stored
	return o, nil
}

func (r *Orders) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r *Orders) Paginate(_ context.Context, q models.OrderQuery) (*models.Page[models.Order], error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	re := matcher(q.Search)
	var all []models.Order
	for _, o := range r.s.orders {
		if !q.User.IsZero() && o.User != q.User {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		if q.PaymentStatus != "" && o.PaymentStatus != q.PaymentStatus {
			continue
		}
		if !matchAny(re, string(o.Status), string(o.PaymentStatus), o.TrackingNumber) {
			continue
		}
		all = append(all, o)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return strings.Compare(all[i].ID.Hex(), all[j].ID.Hex()) > 0
	})
	return page(all, q.PageQuery), nil
}

func (r *Orders) Update(_ context.Context, id primitive.ObjectID, in models.UpdateOrderInput) (*models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.PaymentStatus != nil {
		o.PaymentStatus = *in.PaymentStatus
	}
	if in.PaymentMethod != nil {
		o.PaymentMethod = *in.PaymentMethod
	}
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
	o.UpdatedAt = r.s.Now()
	r.s.orders[id] = o
	return &o, nil
}

func (r *Orders) Delete(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.orders, id)
	return nil
}

func (r *Orders) CountCreatedSince(_ context.Context, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, o := range r.s.orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// Order items

type OrderItems struct{ s *Store }

func (r *OrderItems) CreateMany(_ context.Context, items []models.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.Now()
	for i := range items {
		items[i].Stamp(now)
		r.s.items[items[i].ID] = items[i]
	}
	return nil
}

func (r *OrderItems) FindByOrder(_ context.Context, orderID primitive.ObjectID) ([]models.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := []models.OrderItem{}
	for _, it := range r.s.items {
		if it.Order == orderID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.Hex() < out[j].ID.Hex() })
	return out, nil
}

// Len reports how many order items are stored
func (r *OrderItems) Len() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.items)
}
