package controllers

import (
	"net/http"

	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/bind"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/response"
	"github.com/vanyajewels/storefront/pkg/router"
	"github.com/vanyajewels/storefront/pkg/validate"
)

// OrderController serves checkout and order retrieval.
type OrderController struct {
	service *services.OrderService
}

// NewOrderController wires the order service.
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{service: service}
}

// Create places an order from the submitted items and shipping address.
func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CreateOrderInput
	if _, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	}
	if len(in.Items) > 0 {
		if errs := validate.Struct(in.ShippingAddress); len(errs) > 0 {
			response.ValidationError(w, errs)
			return
		}
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	order, err := c.service.Create(r.Context(), ident, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, map[string]any{"order": order})
}

// List returns the caller's orders, or all orders for admins.
func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	orders, err := c.service.List(r.Context(), ident)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Raw(w, http.StatusOK, map[string]any{
		"success": true,
		"results": len(orders),
		"data":    map[string]any{"orders": orders},
	})
}

// Get returns one order for its owner or an admin.
func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	order, err := c.service.Get(r.Context(), ident, router.Param(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]any{"order": order})
}

// UpdateStatus sets the order status (admin only).
func (c *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	order, err := c.service.UpdateStatus(r.Context(), ident, router.Param(r, "id"), in.Status)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]any{"order": order})
}
