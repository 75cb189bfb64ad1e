// Package services holds the business logic. Services accept store
// interfaces so tests can run against in-memory fakes; the concrete
// implementations live in app/repositories.
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
)

// nowFunc is swapped in tests that need a fixed clock.
var nowFunc = time.Now

// UserStore is the identity store surface the services need.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByPhone(ctx context.Context, phone string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f repositories.UserFilter) ([]models.User, int64, error)
}

// ProductStore is the catalogue store surface.
type ProductStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	List(ctx context.Context, f repositories.ProductFilter) ([]models.Product, int64, error)
}

// CartStore is the cart store surface. Save fails with
// repositories.ErrVersionConflict when the cart changed underneath.
type CartStore interface {
	FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, c *models.Cart) error
	Save(ctx context.Context, c *models.Cart) error
}

// OrderStore is the order store surface.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, userID *primitive.ObjectID) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error)
}

// OTPDeliverer sends one-time codes out of band. The production
// implementation enqueues background jobs; tests capture the codes.
type OTPDeliverer interface {
	SendSMS(ctx context.Context, phone, code, purpose string) error
	SendEmail(ctx context.Context, email, code string) error
}

// Pagination is the page metadata attached to list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination computes page metadata from a total and page size.
func NewPagination(total int64, page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Total: total, Page: page, Limit: limit, TotalPages: pages}
}
