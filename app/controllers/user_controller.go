package controllers

import (
	"net/http"
	"strconv"

	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/bind"
	"github.com/vanyajewels/storefront/pkg/middleware"
	"github.com/vanyajewels/storefront/pkg/response"
	"github.com/vanyajewels/storefront/pkg/router"
)

// UserController serves the profile update, wishlist and admin user listing.
type UserController struct {
	service *services.ProfileService
}

// NewUserController wires the profile service.
func NewUserController(service *services.ProfileService) *UserController {
	return &UserController{service: service}
}

// List is the admin user listing with filters and pagination.
func (c *UserController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.UserFilter{
		Name:   q.Get("name"),
		Email:  q.Get("email"),
		Phone:  q.Get("phone"),
		Search: q.Get("search"),
		SortBy: q.Get("sortBy"),
		Page:   intQuery(q.Get("page"), 1),
		Limit:  intQuery(q.Get("limit"), 10),
	}
	if v := q.Get("isVerified"); v != "" {
		verified := v == "true"
		filter.IsVerified = &verified
	}

	users, pagination, err := c.service.ListUsers(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Raw(w, http.StatusOK, map[string]any{
		"success":    true,
		"message":    "Users fetched successfully",
		"data":       users,
		"pagination": pagination,
	})
}

// Update applies a dynamic profile payload, including the address action
// branch.
func (c *UserController) Update(w http.ResponseWriter, r *http.Request) {
	raw, err := bind.RawJSON(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	user, err := c.service.Update(r.Context(), ident.ID, raw)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "User updated successfully", user)
}

// AddToWishlist appends a product to the caller's wishlist.
func (c *UserController) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var in struct {
		ProductID string `json:"productId" validate:"required"`
	}
	if errs, err := bind.JSON(r, &in); err != nil {
		response.FromError(w, err)
		return
	} else if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	ident, _ := middleware.IdentityFromCtx(r.Context())
	wishlist, err := c.service.AddToWishlist(r.Context(), ident.ID, in.ProductID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Added to wishlist", map[string]any{"wishlist": wishlist})
}

// RemoveFromWishlist drops a product from the caller's wishlist.
func (c *UserController) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	wishlist, err := c.service.RemoveFromWishlist(r.Context(), ident.ID, router.Param(r, "productId"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Removed from wishlist", map[string]any{"wishlist": wishlist})
}

// Wishlist returns the caller's wishlisted products, populated.
func (c *UserController) Wishlist(w http.ResponseWriter, r *http.Request) {
	ident, _ := middleware.IdentityFromCtx(r.Context())
	products, err := c.service.Wishlist(r.Context(), ident.ID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]any{"wishlist": products})
}

func intQuery(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
