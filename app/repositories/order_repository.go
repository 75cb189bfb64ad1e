package repositories

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/pkg/database"
)

const ordersCollection = "orders"

// OrderRepository persists checkout snapshots.
type OrderRepository struct{}

// NewOrderRepository returns the mongo-backed order store.
func NewOrderRepository() *OrderRepository { return &OrderRepository{} }

func (r *OrderRepository) coll() *mongo.Collection {
	return database.Collection(ordersCollection)
}

// Create inserts the order, assigning its id and creation time.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now()
	_, err := r.coll().InsertOne(ctx, o)
	return err
}

// FindByID returns (nil, nil) when the order does not exist.
func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var o models.Order
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns all orders, newest first; when userID is non-nil only that
// user's orders are returned.
func (r *OrderRepository) List(ctx context.Context, userID *primitive.ObjectID) ([]models.Order, error) {
	filter := bson.M{}
	if userID != nil {
		filter["user"] = *userID
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var orders []models.Order
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status field only and returns the updated order, or
// (nil, nil) when the order does not exist.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{"status": status}}
	if status == models.OrderDelivered {
		update = bson.M{"$set": bson.M{
			"status":      status,
			"isDelivered": true,
			"deliveredAt": time.Now(),
		}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o models.Order
	err := r.coll().FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
