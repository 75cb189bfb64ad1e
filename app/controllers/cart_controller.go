package controllers

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/bind"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/response"
	"github.com/vanyajewels/storefront/pkg/router"
)

// CartController serves the per-user cart.
type CartController struct {
	service *services.CartService
}

// NewCartController wires the cart service.
func NewCartController(service *services.CartService) *CartController {
	return &CartController{service: service}
}

// callerID reads the authenticated user's ObjectID from the request
// context. The auth middleware guarantees a valid hex id.
func callerID(r *http.Request) primitive.ObjectID {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	oid, _ := primitive.ObjectIDFromHex(ident.ID)
	return oid
}

// Get returns the populated cart; an empty cart is a success, not an error.
func (c *CartController) Get(w http.ResponseWriter, r *http.Request) {
	view, err := c.service.Get(r.Context(), callerID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}
	if len(view.Items) == 0 {
		response.SuccessMessage(w, "Cart is empty", view)
		return
	}
	response.Success(w, view)
}

// Add puts quantity of a product into the cart, merging with any existing
// line.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gte=1"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	cart, err := c.service.AddItem(r.Context(), callerID(r), in.ProductID, in.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cart)
}

// Update sets an exact quantity; zero or below removes the line.
func (c *CartController) Update(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId"`
		Quantity  *int   `json:"quantity"`
	}
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}
	if in.ProductID == "" || in.Quantity == nil {
		response.Error(w, http.StatusBadRequest, "Product ID and quantity are required")
		return
	}

	cart, err := c.service.UpdateItem(r.Context(), callerID(r), in.ProductID, *in.Quantity)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, cart)
}

// Remove drops one product's line from the cart.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	productID := router.Param(r, "productId")
	cart, err := c.service.RemoveItem(r.Context(), callerID(r), productID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Item removed", cart)
}

// Clear empties the cart without deleting it.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	if err := c.service.Clear(r.Context(), callerID(r)); err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Cart emptied", nil)
}
