package services

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/collection"
	"github.com/vanyajewels/storefront/pkg/metrics"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/validate"
)

// Fixed pricing: a flat 10% tax and a flat shipping charge, applied to every
// order regardless of destination or weight.
const (
	taxRate       = 0.10
	shippingPrice = 100.0
)

// OrderItemInput is one submitted checkout line. Price is taken as given
// and snapshotted; it is not re-derived from the catalogue.
type OrderItemInput struct {
	Product  string  `json:"product" validate:"required"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" validate:"required,gte=1"`
	Price    float64 `json:"price" validate:"required,gte=0"`
}

// CreateOrderInput is the checkout payload.
type CreateOrderInput struct {
	Items           []OrderItemInput    `json:"items"`
	ShippingAddress models.ShippingInfo `json:"shippingAddress"`
	PaymentMethod   string              `json:"paymentMethod"`
}

// OrderService owns checkout and order retrieval.
type OrderService struct {
	orders OrderStore
}

// NewOrderService wires the order store.
func NewOrderService(orders OrderStore) *OrderService {
	return &OrderService{orders: orders}
}

// Create snapshots the submitted items into an immutable order. Both
// contact channels must be verified and the item list non-empty; the four
// price fields are computed once here and never recomputed.
func (s *OrderService) Create(ctx context.Context, ident middleware.Identity, in CreateOrderInput) (*models.Order, error) {
	if !ident.EmailVerified || !ident.PhoneVerified {
		return nil, apperr.Forbidden("Please verify your email and phone to place an order")
	}
	if len(in.Items) == 0 {
		return nil, apperr.BadRequest("Your cart is empty")
	}

	userID, err := primitive.ObjectIDFromHex(ident.ID)
	if err != nil {
		return nil, err
	}

	method := in.PaymentMethod
	if !oneOf(models.PaymentMethods, method) {
		return nil, apperr.BadRequest("Invalid payment method")
	}

	items := make([]models.OrderItem, 0, len(in.Items))
	var itemsPrice float64
	for _, item := range in.Items {
		if errs := validate.Struct(item); len(errs) > 0 {
			return nil, apperr.BadRequest(fieldErrorMessage(errs))
		}
		pid, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return nil, apperr.BadRequest("Invalid product id in items")
		}
		items = append(items, models.OrderItem{
			Product:  pid,
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
		itemsPrice += item.Price * float64(item.Quantity)
	}

	taxPrice := itemsPrice * taxRate
	order := &models.Order{
		User:         userID,
		Items:        items,
		ShippingInfo: in.ShippingAddress,
		PaymentInfo: models.PaymentInfo{
			Method: method,
			Status: "pending",
		},
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice + taxPrice + shippingPrice,
		Status:        models.OrderProcessing,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersCreated.Inc()
	return order, nil
}

// List returns the caller's orders; admins see everyone's.
func (s *OrderService) List(ctx context.Context, ident middleware.Identity) ([]models.Order, error) {
	var filter *primitive.ObjectID
	if ident.Role != models.RoleAdmin {
		uid, err := primitive.ObjectIDFromHex(ident.ID)
		if err != nil {
			return nil, err
		}
		filter = &uid
	}
	return s.orders.List(ctx, filter)
}

// Get returns one order; only its owner or an admin may read it.
func (s *OrderService) Get(ctx context.Context, ident middleware.Identity, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("No order found with that ID")
	}
	order, err := s.orders.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("No order found with that ID")
	}
	if order.User.Hex() != ident.ID && ident.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("You do not have permission to view this order")
	}
	return order, nil
}

// UpdateStatus sets the order status. Admin only; any status from the
// closed set is accepted regardless of the current one.
func (s *OrderService) UpdateStatus(ctx context.Context, ident middleware.Identity, id, status string) (*models.Order, error) {
	if ident.Role != models.RoleAdmin {
		return nil, apperr.Forbidden("You do not have permission to perform this action")
	}
	if !oneOf(models.OrderStatuses, status) {
		return nil, apperr.BadRequest("Invalid order status")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("No order found with that ID")
	}

	order, err := s.orders.UpdateStatus(ctx, oid, status)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("No order found with that ID")
	}
	return order, nil
}

func oneOf(list []string, v string) bool {
	return collection.Contains(list, func(s string) bool { return s == v })
}

// fieldErrorMessage flattens a field→message map into the single message the
// validation envelope carries, in field order.
func fieldErrorMessage(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(errs))
	for _, f := range fields {
		msgs = append(msgs, errs[f])
	}
	return strings.Join(msgs, ", ")
}
