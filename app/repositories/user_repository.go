// Package repositories holds the MongoDB persistence layer. Each repository
// returns (nil, nil) on a simple miss so the services decide which misses
// are errors; every write stamps timestamps here rather than in the caller.
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

const usersCollection = "users"

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Name       string
	Email      string
	Phone      string
	Search     string
	IsVerified *bool
	SortBy     string
	Page       int
	Limit      int
}

// UserRepository persists users.
type UserRepository struct{}

// NewUserRepository returns the mongo-backed user store.
func NewUserRepository() *UserRepository { return &UserRepository{} }

func (r *UserRepository) coll() *mongo.Collection {
	return database.Collection(usersCollection)
}

// FindByID loads a user by hex id. Returns (nil, nil) when absent or when
// the id is not a valid ObjectID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByPhone returns (nil, nil) when no user has the phone.
func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

// FindByEmail returns (nil, nil) when no user has the email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.coll().FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user, assigning its id and timestamps.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	_, err := r.coll().InsertOne(ctx, u)
	return err
}

// Update replaces the stored document with u and bumps UpdatedAt.
func (r *UserRepository) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	res, err := r.coll().ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the user by hex id.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return mongo.ErrNoDocuments
	}
	_, err = r.coll().DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

// List returns a page of users matching the filter plus the total count.
func (r *UserRepository) List(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	filter := bson.M{}
	if f.Name != "" {
		filter["name"] = bson.M{"$regex": f.Name, "$options": "i"}
	}
	if f.Email != "" {
		filter["email"] = bson.M{"$regex": f.Email, "$options": "i"}
	}
	if f.Phone != "" {
		filter["phone"] = bson.M{"$regex": f.Phone}
	}
	if f.IsVerified != nil {
		filter["phoneVerified"] = *f.IsVerified
	}
	if f.Search != "" {
		filter["$or"] = bson.A{
			bson.M{"name": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"email": bson.M{"$regex": f.Search, "$options": "i"}},
			bson.M{"phone": bson.M{"$regex": f.Search}},
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
		SetSort(sortSpec(f.SortBy, "-createdAt")).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cur, err := r.coll().Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// sortSpec turns "-createdAt" / "name" style sort keys into a mongo sort
// document, falling back when the key is empty.
func sortSpec(key, fallback string) bson.D {
	if key == "" {
		key = fallback
	}
	dir := 1
	if key[0] == '-' {
		dir = -1
		key = key[1:]
	}
	return bson.D{{Key: key, Value: dir}}
}
