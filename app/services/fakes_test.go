package services

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
)

// ─── In-memory fakes ──────────────────────────────────────────────────────────

type fakeUserStore struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[primitive.ObjectID]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	cp := *u
	if u.OTP != nil {
		otp := *u.OTP
		cp.OTP = &otp
	}
	cp.Addresses = append([]models.Address(nil), u.Addresses...)
	cp.Wishlist = append([]primitive.ObjectID(nil), u.Wishlist...)
	return &cp
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	if u, ok := f.users[oid]; ok {
		return cloneUser(u), nil
	}
	return nil, nil
}

func (f *fakeUserStore) FindByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range f.users {
		if u.Phone == phone {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	f.users[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, u *models.User) error {
	f.users[u.ID] = cloneUser(u)
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	delete(f.users, oid)
	return nil
}

func (f *fakeUserStore) List(_ context.Context, filter repositories.UserFilter) ([]models.User, int64, error) {
	var out []models.User
	for _, u := range f.users {
		if filter.IsVerified != nil && u.PhoneVerified != *filter.IsVerified {
			continue
		}
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Search)) &&
			!strings.Contains(u.Email, strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *cloneUser(u))
	}
	return out, int64(len(out)), nil
}

type fakeProductStore struct {
	products map[primitive.ObjectID]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: map[primitive.ObjectID]*models.Product{}}
}

func (f *fakeProductStore) add(p models.Product) primitive.ObjectID {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := p
	f.products[p.ID] = &cp
	return p.ID
}

func (f *fakeProductStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductStore) Create(_ context.Context, p *models.Product) error {
	p.ID = f.add(*p)
	return nil
}

func (f *fakeProductStore) Update(_ context.Context, p *models.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) Delete(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	delete(f.products, id)
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) List(_ context.Context, _ repositories.ProductFilter) ([]models.Product, int64, error) {
	var out []models.Product
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

// fakeCartStore emulates the version check and the unique user index of the
// Mongo repository. conflicts > 0 makes the next saves fail with
// ErrVersionConflict, which is how the retry loop gets exercised; hideOnce
// makes the next FindByUser miss an existing cart, which is how the
// first-add insert race gets exercised.
type fakeCartStore struct {
	carts     map[primitive.ObjectID]*models.Cart
	conflicts int
	hideOnce  bool
	saves     int
	creates   int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{carts: map[primitive.ObjectID]*models.Cart{}}
}

func cloneCart(c *models.Cart) *models.Cart {
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp
}

func (f *fakeCartStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	if f.hideOnce {
		f.hideOnce = false
		return nil, nil
	}
	if c, ok := f.carts[userID]; ok {
		return cloneCart(c), nil
	}
	return nil, nil
}

func (f *fakeCartStore) Create(_ context.Context, c *models.Cart) error {
	f.creates++
	if _, ok := f.carts[c.User]; ok {
		return repositories.ErrVersionConflict
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Version = 1
	f.carts[c.User] = cloneCart(c)
	return nil
}

func (f *fakeCartStore) Save(_ context.Context, c *models.Cart) error {
	f.saves++
	if f.conflicts > 0 {
		f.conflicts--
		return repositories.ErrVersionConflict
	}
	stored, ok := f.carts[c.User]
	if !ok || stored.Version != c.Version {
		return repositories.ErrVersionConflict
	}
	c.Version++
	f.carts[c.User] = cloneCart(c)
	return nil
}

type fakeOrderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrderStore) Create(_ context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	cp := *o
	f.orders[o.ID] = &cp
	return nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	if o, ok := f.orders[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeOrderStore) List(_ context.Context, userID *primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if userID != nil && o.User != *userID {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	if status == models.OrderDelivered {
		o.IsDelivered = true
	}
	cp := *o
	return &cp, nil
}

// fakeDeliverer records the plaintext codes handed to it, so tests can replay
// them through the verify flows.
type fakeDeliverer struct {
	sms    []sentSMS
	emails []sentEmail
}

type sentSMS struct {
	Phone, Code, Purpose string
}

type sentEmail struct {
	To, Code string
}

func (f *fakeDeliverer) SendSMS(_ context.Context, phone, code, purpose string) error {
	f.sms = append(f.sms, sentSMS{Phone: phone, Code: code, Purpose: purpose})
	return nil
}

func (f *fakeDeliverer) SendEmail(_ context.Context, email, code string) error {
	f.emails = append(f.emails, sentEmail{To: email, Code: code})
	return nil
}

func (f *fakeDeliverer) lastSMS() sentSMS {
	return f.sms[len(f.sms)-1]
}
