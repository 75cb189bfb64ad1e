package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem is one line in a cart: a product reference and a quantity.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Cart holds at most one document per user. Total caches the sum of
// sellingPrice × quantity as of the last mutation; it goes stale if a
// product price changes afterwards and is only refreshed on the next
// mutation. Version backs the optimistic concurrency check in the
// repository: a save only succeeds against the version it was read at.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Items     []CartItem         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	Version   int64              `bson:"version" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ItemIndex returns the index of productID in Items, or -1.
func (c *Cart) ItemIndex(productID primitive.ObjectID) int {
	for i := range c.Items {
		if c.Items[i].Product == productID {
			return i
		}
	}
	return -1
}
