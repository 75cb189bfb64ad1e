package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/metrics"
)

// saveAttempts bounds the optimistic-concurrency retry loop. Conflicts only
// happen when the same user mutates their cart from two requests at once, so
// contention is rare and short.
const saveAttempts = 3

// CartView is the populated cart shape returned to clients: line items with
// the full product joined in, plus the cached total.
type CartView struct {
	Items []CartViewItem `json:"items"`
	Total float64        `json:"total"`
}

// CartViewItem joins a line item with its product. Product is null when the
// referenced product has been deleted since it was added.
type CartViewItem struct {
	Product  *models.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartService owns the one-cart-per-user line-item list. Every mutation
// recomputes the cached total from current selling prices; the total is not
// refreshed when prices change between mutations.
type CartService struct {
	carts    CartStore
	products ProductStore
}

// NewCartService wires the cart and product stores.
func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// AddItem merges quantity into an existing line or appends a new one. The
// first add for a user creates the cart document.
func (s *CartService) AddItem(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.Cart, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.BadRequest("Product not available or out of stock")
	}
	product, err := s.products.FindByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.InStock(quantity) {
		return nil, apperr.BadRequest("Product not available or out of stock")
	}

	var cart *models.Cart
	err = s.withRetry(ctx, userID, func(c *models.Cart) (*models.Cart, error) {
		if c == nil {
			fresh := &models.Cart{
				User:  userID,
				Items: []models.CartItem{{Product: pid, Quantity: quantity}},
				Total: product.SellingPrice * float64(quantity),
			}
			if err := s.carts.Create(ctx, fresh); err != nil {
				return nil, err
			}
			cart = fresh
			return nil, nil
		}

		if idx := c.ItemIndex(pid); idx > -1 {
			c.Items[idx].Quantity += quantity
		} else {
			c.Items = append(c.Items, models.CartItem{Product: pid, Quantity: quantity})
		}
		if err := s.recomputeTotal(ctx, c); err != nil {
			return nil, err
		}
		cart = c
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutations.WithLabelValues("add").Inc()
	return cart, nil
}

// Get returns the populated cart. A missing or empty cart is not an error;
// it comes back as the canonical empty shape.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return &CartView{Items: []CartViewItem{}, Total: 0}, nil
	}

	view := &CartView{Items: make([]CartViewItem, 0, len(cart.Items)), Total: cart.Total}
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			return nil, err
		}
		view.Items = append(view.Items, CartViewItem{Product: product, Quantity: item.Quantity})
	}
	return view, nil
}

// UpdateItem sets an exact quantity on an existing line. Quantity ≤ 0 is a
// removal, not an error.
func (s *CartService) UpdateItem(ctx context.Context, userID primitive.ObjectID, productID string, quantity int) (*models.Cart, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.NotFound("Product not in cart")
	}

	var cart *models.Cart
	err = s.withRetry(ctx, userID, func(c *models.Cart) (*models.Cart, error) {
		if c == nil {
			return nil, apperr.NotFound("Cart not found")
		}
		idx := c.ItemIndex(pid)
		if idx == -1 {
			return nil, apperr.NotFound("Product not in cart")
		}

		if quantity <= 0 {
			c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
		} else {
			c.Items[idx].Quantity = quantity
		}
		if err := s.recomputeTotal(ctx, c); err != nil {
			return nil, err
		}
		cart = c
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutations.WithLabelValues("update").Inc()
	return cart, nil
}

// RemoveItem drops a line from the cart. Absence is detected by comparing
// the filtered length against the original.
func (s *CartService) RemoveItem(ctx context.Context, userID primitive.ObjectID, productID string) (*models.Cart, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.NotFound("Item not found in cart")
	}

	var cart *models.Cart
	err = s.withRetry(ctx, userID, func(c *models.Cart) (*models.Cart, error) {
		if c == nil {
			return nil, apperr.NotFound("Cart not found")
		}

		kept := make([]models.CartItem, 0, len(c.Items))
		for _, item := range c.Items {
			if item.Product != pid {
				kept = append(kept, item)
			}
		}
		if len(kept) == len(c.Items) {
			return nil, apperr.NotFound("Item not found in cart")
		}
		c.Items = kept

		if err := s.recomputeTotal(ctx, c); err != nil {
			return nil, err
		}
		cart = c
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	metrics.CartMutations.WithLabelValues("remove").Inc()
	return cart, nil
}

// Clear empties the cart and zeroes the total. The document itself
// survives; only its contents go.
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	err := s.withRetry(ctx, userID, func(c *models.Cart) (*models.Cart, error) {
		if c == nil {
			return nil, apperr.NotFound("Cart not found")
		}
		c.Items = []models.CartItem{}
		c.Total = 0
		return c, nil
	})
	if err != nil {
		return err
	}

	metrics.CartMutations.WithLabelValues("clear").Inc()
	return nil
}

// withRetry runs mutate against a freshly read cart and saves the result,
// retrying the whole read-modify-write when the version check fails.
// mutate returns nil to signal that it already persisted (cart creation); a
// conflict from mutate itself (a lost first-add insert race) is retried the
// same way as a Save conflict, so the next read picks up the winner's cart.
func (s *CartService) withRetry(ctx context.Context, userID primitive.ObjectID, mutate func(*models.Cart) (*models.Cart, error)) error {
	for attempt := 0; attempt < saveAttempts; attempt++ {
		cart, err := s.carts.FindByUser(ctx, userID)
		if err != nil {
			return err
		}

		updated, err := mutate(cart)
		if err != nil {
			if errors.Is(err, repositories.ErrVersionConflict) {
				continue
			}
			return err
		}
		if updated == nil {
			return nil
		}

		err = s.carts.Save(ctx, updated)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}
	}
	return apperr.New(http.StatusConflict, "Cart was modified by another request, please retry")
}

// recomputeTotal re-fetches every line item's product and sums current
// sellingPrice × quantity. N+1 reads; carts are small.
func (s *CartService) recomputeTotal(ctx context.Context, c *models.Cart) error {
	var total float64
	for _, item := range c.Items {
		product, err := s.products.FindByID(ctx, item.Product)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("cart %s references missing product %s", c.ID.Hex(), item.Product.Hex())
		}
		total += product.SellingPrice * float64(item.Quantity)
	}
	c.Total = total
	return nil
}
