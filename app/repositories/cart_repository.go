package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/pkg/database"
)

const cartsCollection = "carts"

// ErrVersionConflict is returned when the cart changed since it was read:
// by Save on a version mismatch, and by Create when a concurrent first add
// already inserted the user's cart. Callers re-read and retry.
var ErrVersionConflict = errors.New("cart modified concurrently")

// CartRepository persists carts, one document per user.
type CartRepository struct{}

// NewCartRepository returns the mongo-backed cart store.
func NewCartRepository() *CartRepository { return &CartRepository{} }

func (r *CartRepository) coll() *mongo.Collection {
	return database.Collection(cartsCollection)
}

// FindByUser returns (nil, nil) when the user has no cart yet.
func (r *CartRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	var c models.Cart
	err := r.coll().FindOne(ctx, bson.M{"user": userID}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a fresh cart at version 1. Losing the insert race against
// the unique user index means another request created the cart first; that
// comes back as ErrVersionConflict, not as a duplicate-key error.
func (r *CartRepository) Create(ctx context.Context, c *models.Cart) error {
	now := time.Now()
	c.ID = primitive.NewObjectID()
	c.Version = 1
	c.CreatedAt = now
	c.UpdatedAt = now
	_, err := r.coll().InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return ErrVersionConflict
	}
	return err
}

// Save replaces the cart only if the stored version still matches the one
// the caller read. On success the in-memory version is bumped to match the
// stored document; on a mismatch ErrVersionConflict is returned and nothing
// is written.
func (r *CartRepository) Save(ctx context.Context, c *models.Cart) error {
	readVersion := c.Version
	c.Version = readVersion + 1
	c.UpdatedAt = time.Now()

	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": c.ID, "version": readVersion}, c)
	if err != nil {
		c.Version = readVersion
		return err
	}
	if res.MatchedCount == 0 {
		c.Version = readVersion
		return ErrVersionConflict
	}
	return nil
}
