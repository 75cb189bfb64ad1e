package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vanyajewels/storefront/app/models"
)

func init() {
	Register("products", SeedProducts)
}

// SeedProducts inserts a small starter catalogue into an empty database.
func SeedProducts(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("products")

	count, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	returnDays := 7
	now := time.Now()
	products := []models.Product{
		{
			Name:         "Classic Gold Band Ring",
			Slug:         "classic-gold-band-ring",
			Description:  "A timeless 22k gold band, hand-finished for daily wear.",
			MRP:          24999,
			SellingPrice: 21999,
			Discount:     12,
			Category:     "rings",
			Material:     "gold",
			Purity:       "22k",
			Weight:       4.2,
			Stock:        25,
			Gender:       "Unisex",
			Occasion:     "Daily Wear",
			IsReturnable: true, ReturnPolicyDays: &returnDays,
			WarrantyInMonths: 12,
			Images:           []string{"/uploads/products/seed-gold-band.jpg"},
			CreatedAt:        now,
		},
		{
			Name:         "Silver Pearl Drop Earrings",
			Slug:         "silver-pearl-drop-earrings",
			Description:  "925 silver drops set with freshwater pearls.",
			MRP:          4999,
			SellingPrice: 3999,
			Discount:     20,
			Category:     "earrings",
			Material:     "silver",
			Purity:       "925",
			Weight:       6.8,
			Stock:        40,
			Gender:       "Women",
			Occasion:     "Party",
			Images:       []string{"/uploads/products/seed-pearl-earrings.jpg"},
			CreatedAt:    now,
		},
		{
			Name:         "Traditional Mangalsutra Chain",
			Slug:         "traditional-mangalsutra-chain",
			Description:  "Black-bead mangalsutra with an 18k gold pendant.",
			MRP:          35999,
			SellingPrice: 32499,
			Discount:     10,
			Category:     "mangalsutra",
			Material:     "gold",
			Purity:       "18k",
			Weight:       8.5,
			Stock:        12,
			Gender:       "Women",
			Occasion:     "Wedding",
			WarrantyInMonths: 24,
			Images:           []string{"/uploads/products/seed-mangalsutra.jpg"},
			CreatedAt:        now,
		},
	}

	docs := make([]interface{}, len(products))
	for i := range products {
		docs[i] = products[i]
	}
	_, err = coll.InsertMany(ctx, docs)
	return err
}
