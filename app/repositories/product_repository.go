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

const productsCollection = "products"

// ProductFilter narrows the public catalogue listing.
type ProductFilter struct {
	Category     string
	SubCategory  string
	Material     string
	Purity       string
	Gender       string
	Occasions    []string
	Featured     *bool
	IsReturnable *bool
	Search       string
	Page         int
	Limit        int
}

// ProductRepository persists catalogue entries.
type ProductRepository struct{}

// NewProductRepository returns the mongo-backed product store.
func NewProductRepository() *ProductRepository { return &ProductRepository{} }

func (r *ProductRepository) coll() *mongo.Collection {
	return database.Collection(productsCollection)
}

// FindByID returns (nil, nil) when the product does not exist.
func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts the product, assigning its id and creation time.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now()
	_, err := r.coll().InsertOne(ctx, p)
	return err
}

// Update replaces the stored document with p.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the product and returns the deleted document, or
// (nil, nil) when it did not exist.
func (r *ProductRepository) Delete(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	err := r.coll().FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns a page of products matching the filter plus the total count,
// newest first.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.SubCategory != "" {
		filter["subCategory"] = f.SubCategory
	}
	if f.Material != "" {
		filter["material"] = f.Material
	}
	if f.Purity != "" {
		filter["purity"] = f.Purity
	}
	if f.Gender != "" {
		filter["gender"] = f.Gender
	}
	if len(f.Occasions) > 0 {
		filter["occasion"] = bson.M{"$in": f.Occasions}
	}
	if f.Featured != nil {
		filter["featured"] = *f.Featured
	}
	if f.IsReturnable != nil {
		filter["isReturnable"] = *f.IsReturnable
	}
	if f.Search != "" {
		rx := bson.M{"$regex": f.Search, "$options": "i"}
		filter["$or"] = bson.A{
			bson.M{"name": rx},
			bson.M{"category": rx},
			bson.M{"subCategory": rx},
			bson.M{"occasion": rx},
		}
	}

	page, limit := f.Page, f.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := r.coll().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var products []models.Product
	if err := cur.All(ctx, &products); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
