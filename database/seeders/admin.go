package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/config"
	"github.com/vanyajewels/storefront/pkg/auth"
)

func init() {
	Register("admin-user", SeedAdmin)
}

// SeedAdmin creates the admin account when none exists. Credentials come
// from ADMIN_PHONE / ADMIN_EMAIL / ADMIN_PASSWORD.
func SeedAdmin(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("users")

	phone := config.Get("ADMIN_PHONE", "9999999999")
	count, err := coll.CountDocuments(ctx, bson.M{"phone": phone})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashed, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}

	now := time.Now()
	admin := models.User{
		Name:              "Store Admin",
		Phone:             phone,
		Email:             config.Get("ADMIN_EMAIL", "admin@vanyajewels.in"),
		Password:          hashed,
		PasswordChangedAt: now,
		Role:              models.RoleAdmin,
		PhoneVerified:     true,
		EmailVerified:     true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	admin.JewelleryInterests = []string{"Rings", "Necklaces"}

	_, err = coll.InsertOne(ctx, admin)
	return err
}
