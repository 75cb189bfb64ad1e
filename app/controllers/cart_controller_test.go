package controllers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/controllers"
	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/rbac"
	"github.com/vanyajewels/storefront/pkg/router"
	"github.com/vanyajewels/storefront/pkg/testkit"
)

// ─── Minimal fakes for the HTTP wiring tests ──────────────────────────────────

type userStore struct {
	users map[primitive.ObjectID]*models.User
}

func (s *userStore) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	u, ok := s.users[oid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) FindByPhone(context.Context, string) (*models.User, error) { return nil, nil }
func (s *userStore) FindByEmail(context.Context, string) (*models.User, error) { return nil, nil }
func (s *userStore) Create(_ context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.users[u.ID] = u
	return nil
}
func (s *userStore) Update(_ context.Context, u *models.User) error {
	s.users[u.ID] = u
	return nil
}
func (s *userStore) Delete(context.Context, string) error { return nil }
func (s *userStore) List(context.Context, repositories.UserFilter) ([]models.User, int64, error) {
	return nil, 0, nil
}

type productStore struct {
	products map[primitive.ObjectID]*models.Product
}

func (s *productStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}
func (s *productStore) Create(_ context.Context, p *models.Product) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products[p.ID] = p
	return nil
}
func (s *productStore) Update(_ context.Context, p *models.Product) error {
	s.products[p.ID] = p
	return nil
}
func (s *productStore) Delete(context.Context, primitive.ObjectID) (*models.Product, error) {
	return nil, nil
}
func (s *productStore) List(context.Context, repositories.ProductFilter) ([]models.Product, int64, error) {
	return nil, 0, nil
}

type cartStore struct {
	carts map[primitive.ObjectID]*models.Cart
}

func (s *cartStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	c, ok := s.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]models.CartItem(nil), c.Items...)
	return &cp, nil
}
func (s *cartStore) Create(_ context.Context, c *models.Cart) error {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	c.Version = 1
	s.carts[c.User] = c
	return nil
}
func (s *cartStore) Save(_ context.Context, c *models.Cart) error {
	c.Version++
	s.carts[c.User] = c
	return nil
}

type orderStore struct {
	orders map[primitive.ObjectID]*models.Order
}

func newOrderStore() *orderStore {
	return &orderStore{orders: map[primitive.ObjectID]*models.Order{}}
}

func (s *orderStore) Create(_ context.Context, o *models.Order) error {
	if o.ID.IsZero() {
		o.ID = primitive.NewObjectID()
	}
	s.orders[o.ID] = o
	return nil
}
func (s *orderStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}
func (s *orderStore) List(context.Context, *primitive.ObjectID) ([]models.Order, error) {
	return nil, nil
}
func (s *orderStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Status = status
	cp := *o
	return &cp, nil
}

type noopDeliverer struct{}

func (noopDeliverer) SendSMS(context.Context, string, string, string) error { return nil }
func (noopDeliverer) SendEmail(context.Context, string, string) error       { return nil }

// ─── Fixture ──────────────────────────────────────────────────────────────────

type fixture struct {
	handler  http.Handler
	users    *userStore
	products *productStore
	user     *models.User
	admin    *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := &userStore{users: map[primitive.ObjectID]*models.User{}}
	products := &productStore{products: map[primitive.ObjectID]*models.Product{}}
	carts := &cartStore{carts: map[primitive.ObjectID]*models.Cart{}}
	orders := newOrderStore()

	user := &models.User{
		Name: "Asha Verma", Phone: "9876543210", Email: "asha@example.com",
		Role: models.RoleUser, PhoneVerified: true, EmailVerified: true,
	}
	admin := &models.User{
		Name: "Store Admin", Phone: "9999999999", Email: "admin@example.com",
		Role: models.RoleAdmin, PhoneVerified: true, EmailVerified: true,
	}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, users.Create(context.Background(), admin))

	authService := services.NewAuthService(users, noopDeliverer{})
	cartService := services.NewCartService(carts, products)
	orderService := services.NewOrderService(orders)

	cartCtrl := controllers.NewCartController(cartService)
	orderCtrl := controllers.NewOrderController(orderService)

	authed := middleware.Auth(authService)
	adminOnly := rbac.HasRole(models.RoleAdmin)

	r := router.New()
	api := r.Group("/api/v1")

	cart := api.Group("/cart", authed)
	cart.Get("", "cart.get", cartCtrl.Get)
	cart.Post("", "cart.add", cartCtrl.Add)
	cart.Post("/update", "cart.update", cartCtrl.Update)
	cart.Delete("/{productId}", "cart.remove", cartCtrl.Remove)
	cart.Delete("", "cart.clear", cartCtrl.Clear)

	ordersGroup := api.Group("/orders", authed)
	ordersGroup.Post("", "orders.create", orderCtrl.Create)
	ordersGroup.Patch("/{id}/status", "orders.update-status", orderCtrl.UpdateStatus, adminOnly)

	return &fixture{handler: r.Handler(), users: users, products: products, user: user, admin: admin}
}

func (f *fixture) addProduct(t *testing.T, price float64, stock int) primitive.ObjectID {
	t.Helper()
	p := &models.Product{Name: "Gold Ring", SellingPrice: price, Stock: stock}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestCartRequiresAuth(t *testing.T) {
	f := newFixture(t)

	resp := testkit.Get(t, f.handler, "/api/v1/cart")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCartAddAndGet(t *testing.T) {
	f := newFixture(t)
	cookie := testkit.AuthCookie(t, f.user.ID.Hex())
	pid := f.addProduct(t, 50, 10)

	resp := testkit.PostJSON(t, f.handler, "/api/v1/cart",
		map[string]any{"productId": pid.Hex(), "quantity": 3}, cookie)
	require.Equal(t, http.StatusOK, resp.Code, resp.Rec.Body.String())
	assert.True(t, resp.Success)

	resp = testkit.Get(t, f.handler, "/api/v1/cart", cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	var view struct {
		Items []struct {
			Quantity int `json:"quantity"`
		} `json:"items"`
		Total float64 `json:"total"`
	}
	testkit.DecodeData(t, resp, &view)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, 150.0, view.Total)
}

func TestCartEmptyMessage(t *testing.T) {
	f := newFixture(t)
	cookie := testkit.AuthCookie(t, f.user.ID.Hex())

	resp := testkit.Get(t, f.handler, "/api/v1/cart", cookie)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Cart is empty", resp.Message)
}

func TestCartAddValidation(t *testing.T) {
	f := newFixture(t)
	cookie := testkit.AuthCookie(t, f.user.ID.Hex())

	resp := testkit.PostJSON(t, f.handler, "/api/v1/cart", map[string]any{"quantity": 1}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestCartUpdateRequiresBothFields(t *testing.T) {
	f := newFixture(t)
	cookie := testkit.AuthCookie(t, f.user.ID.Hex())

	resp := testkit.PostJSON(t, f.handler, "/api/v1/cart/update",
		map[string]any{"productId": primitive.NewObjectID().Hex()}, cookie)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "Product ID and quantity are required", resp.Message)
}

func TestCartRemoveAndClearMessages(t *testing.T) {
	f := newFixture(t)
	cookie := testkit.AuthCookie(t, f.user.ID.Hex())
	pid := f.addProduct(t, 50, 10)

	resp := testkit.PostJSON(t, f.handler, "/api/v1/cart",
		map[string]any{"productId": pid.Hex(), "quantity": 1}, cookie)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = testkit.Do(t, f.handler, testkit.Request{
		Method: http.MethodDelete, Path: "/api/v1/cart/" + pid.Hex(),
		Cookies: []*http.Cookie{cookie},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Item removed", resp.Message)

	resp = testkit.Do(t, f.handler, testkit.Request{
		Method: http.MethodDelete, Path: "/api/v1/cart",
		Cookies: []*http.Cookie{cookie},
	})
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Cart emptied", resp.Message)
}

func TestOrderStatusRouteIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	userCookie := testkit.AuthCookie(t, f.user.ID.Hex())
	adminCookie := testkit.AuthCookie(t, f.admin.ID.Hex())

	create := testkit.PostJSON(t, f.handler, "/api/v1/orders", map[string]any{
		"items": []map[string]any{{
			"product": primitive.NewObjectID().Hex(), "name": "Ring", "quantity": 1, "price": 100,
		}},
		"shippingAddress": map[string]any{
			"fullName": "Asha Verma", "address": "12 MG Road", "city": "Pune",
			"state": "Maharashtra", "pincode": "411001", "phone": "9876543210",
		},
		"paymentMethod": "COD",
	}, userCookie)
	require.Equal(t, http.StatusCreated, create.Code, create.Rec.Body.String())

	var created struct {
		Order struct {
			ID string `json:"_id"`
		} `json:"order"`
	}
	testkit.DecodeData(t, create, &created)

	resp := testkit.Do(t, f.handler, testkit.Request{
		Method: http.MethodPatch, Path: "/api/v1/orders/" + created.Order.ID + "/status",
		Body: map[string]any{"status": "shipped"}, Cookies: []*http.Cookie{userCookie},
	})
	assert.Equal(t, http.StatusForbidden, resp.Code)

	resp = testkit.Do(t, f.handler, testkit.Request{
		Method: http.MethodPatch, Path: "/api/v1/orders/" + created.Order.ID + "/status",
		Body: map[string]any{"status": "shipped"}, Cookies: []*http.Cookie{adminCookie},
	})
	assert.Equal(t, http.StatusOK, resp.Code, resp.Rec.Body.String())
}
