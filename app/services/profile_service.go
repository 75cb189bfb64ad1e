package services

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/auth"
)

// Field lists for the generic profile update. The deny list is checked
// first so its distinct message wins for fields on both lists' complement.
var (
	restrictedProfileFields = []string{"_id", "otp", "isVerified", "createdAt", "updatedAt"}
	allowedProfileFields    = []string{
		"name", "phone", "email", "password", "passwordChangedAt",
		"gender", "age", "jewelleryInterests", "address",
	}
)

var (
	alphaSpacePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)
	zipPattern        = regexp.MustCompile(`^[1-9][0-9]{5}$`)
	emailPattern      = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// profileUpdate is the typed form of the allowed non-address fields. Nil
// means "not submitted".
type profileUpdate struct {
	Name               *string   `json:"name"`
	Phone              *string   `json:"phone"`
	Email              *string   `json:"email"`
	Password           *string   `json:"password"`
	Gender             *string   `json:"gender"`
	Age                *int      `json:"age"`
	JewelleryInterests *[]string `json:"jewelleryInterests"`
}

// addressAction is the decoded address mutation payload. Action selects
// add/update/delete; the field pointers double as the update patch.
type addressAction struct {
	Action    string  `json:"action"`
	ID        string  `json:"_id"`
	FullName  *string `json:"fullName"`
	Street    *string `json:"streetAddress"`
	City      *string `json:"city"`
	State     *string `json:"state"`
	Zip       *string `json:"zip"`
	Phone     *string `json:"phone"`
	IsDefault *bool   `json:"isDefault"`
}

// ProfileService owns profile updates, address mutations, the wishlist and
// the admin user listing.
type ProfileService struct {
	users    UserStore
	products ProductStore
}

// NewProfileService wires the identity and catalogue stores.
func NewProfileService(users UserStore, products ProductStore) *ProfileService {
	return &ProfileService{users: users, products: products}
}

// Update applies a dynamic profile payload. Field names are vetted against
// the deny and allow lists before anything is decoded; the address key runs
// through the action discriminator.
func (s *ProfileService) Update(ctx context.Context, userID string, raw map[string]json.RawMessage) (*models.User, error) {
	if len(raw) == 0 {
		return nil, apperr.BadRequest("No update fields provided")
	}
	for _, field := range restrictedProfileFields {
		if _, ok := raw[field]; ok {
			return nil, apperr.BadRequestf("Cannot update field: %s", field)
		}
	}
	for key := range raw {
		if !oneOf(allowedProfileFields, key) {
			return nil, apperr.BadRequestf("Field not allowed to update: %s", key)
		}
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	if payload, ok := raw["address"]; ok {
		if err := s.applyAddressAction(user, payload); err != nil {
			return nil, err
		}
		delete(raw, "address")
	}

	var update profileUpdate
	if len(raw) > 0 {
		merged, err := json.Marshal(raw)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(merged, &update); err != nil {
			return nil, apperr.BadRequest("Malformed update payload")
		}
		if err := s.applyProfileUpdate(user, update); err != nil {
			return nil, err
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *ProfileService) applyProfileUpdate(user *models.User, update profileUpdate) error {
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if len(name) < 2 || len(name) > 50 || !alphaSpacePattern.MatchString(name) {
			return apperr.BadRequest("Name can only contain letters and spaces")
		}
		user.Name = name
	}
	if update.Phone != nil {
		if !phonePattern.MatchString(*update.Phone) {
			return apperr.BadRequest("Enter a valid Indian mobile number")
		}
		user.Phone = *update.Phone
	}
	if update.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*update.Email))
		if !emailPattern.MatchString(email) {
			return apperr.BadRequest("Enter a valid email address")
		}
		user.Email = email
	}
	if update.Password != nil {
		if len(*update.Password) < 6 {
			return apperr.BadRequest("Password must be at least 6 characters")
		}
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return err
		}
		user.Password = hashed
		user.PasswordChangedAt = nowFunc()
	}
	if update.Gender != nil {
		gender := strings.ToLower(strings.TrimSpace(*update.Gender))
		if !oneOf(models.Genders, gender) {
			return apperr.BadRequest("Gender must be one of men, women, unisex")
		}
		user.Gender = gender
	}
	if update.Age != nil {
		if *update.Age < 15 || *update.Age > 120 {
			return apperr.BadRequest("Age must be between 15 and 120")
		}
		user.Age = *update.Age
	}
	if update.JewelleryInterests != nil {
		for _, interest := range *update.JewelleryInterests {
			if !oneOf(models.JewelleryInterests, interest) {
				return apperr.BadRequest("Category must be one of allowed values")
			}
		}
		user.JewelleryInterests = *update.JewelleryInterests
	}
	return nil
}

// applyAddressAction dispatches the {add, update, delete} discriminator
// against the user's address list.
func (s *ProfileService) applyAddressAction(user *models.User, payload json.RawMessage) error {
	var in addressAction
	if err := json.Unmarshal(payload, &in); err != nil {
		return apperr.BadRequest("Malformed address payload")
	}

	switch {
	case in.Action == "add":
		addr, err := buildAddress(in)
		if err != nil {
			return err
		}
		user.AddAddress(addr)
		return nil

	case in.Action == "update" && in.ID != "":
		oid, err := primitive.ObjectIDFromHex(in.ID)
		if err != nil {
			return apperr.NotFound("Address not found")
		}
		if err := validateAddressPatch(in); err != nil {
			return err
		}
		return user.UpdateAddress(oid, models.AddressPatch{
			FullName:  in.FullName,
			Street:    in.Street,
			City:      in.City,
			State:     in.State,
			Zip:       in.Zip,
			Phone:     in.Phone,
			IsDefault: in.IsDefault,
		})

	case in.Action == "delete" && in.ID != "":
		oid, err := primitive.ObjectIDFromHex(in.ID)
		if err != nil {
			// Unmatched ids no-op; a malformed one behaves the same.
			return nil
		}
		user.RemoveAddress(oid)
		return nil

	default:
		return apperr.BadRequest("Invalid address action or _id missing")
	}
}

// buildAddress validates a full address for the add action. Every field is
// required.
func buildAddress(in addressAction) (models.Address, error) {
	var a models.Address
	if in.FullName == nil || !alphaSpacePattern.MatchString(*in.FullName) {
		return a, apperr.BadRequest("Full name can only contain letters and spaces")
	}
	if in.Street == nil || strings.TrimSpace(*in.Street) == "" {
		return a, apperr.BadRequest("Street address is required")
	}
	if in.City == nil || !alphaSpacePattern.MatchString(*in.City) {
		return a, apperr.BadRequest("City can only contain letters and spaces")
	}
	if in.State == nil || !oneOf(models.IndianStates, *in.State) {
		return a, apperr.BadRequest("State must be a valid Indian state")
	}
	if in.Zip == nil || !zipPattern.MatchString(*in.Zip) {
		return a, apperr.BadRequest("Enter a valid 6-digit Indian PIN code")
	}
	if in.Phone == nil || !phonePattern.MatchString(*in.Phone) {
		return a, apperr.BadRequest("Enter a valid Indian mobile number")
	}

	a = models.Address{
		FullName: *in.FullName,
		Street:   *in.Street,
		City:     *in.City,
		State:    *in.State,
		Zip:      *in.Zip,
		Phone:    *in.Phone,
	}
	if in.IsDefault != nil {
		a.IsDefault = *in.IsDefault
	}
	return a, nil
}

// validateAddressPatch checks only the fields present in an update.
func validateAddressPatch(in addressAction) error {
	if in.FullName != nil && !alphaSpacePattern.MatchString(*in.FullName) {
		return apperr.BadRequest("Full name can only contain letters and spaces")
	}
	if in.City != nil && !alphaSpacePattern.MatchString(*in.City) {
		return apperr.BadRequest("City can only contain letters and spaces")
	}
	if in.State != nil && !oneOf(models.IndianStates, *in.State) {
		return apperr.BadRequest("State must be a valid Indian state")
	}
	if in.Zip != nil && !zipPattern.MatchString(*in.Zip) {
		return apperr.BadRequest("Enter a valid 6-digit Indian PIN code")
	}
	if in.Phone != nil && !phonePattern.MatchString(*in.Phone) {
		return apperr.BadRequest("Enter a valid Indian mobile number")
	}
	return nil
}

// AddToWishlist appends a product reference, rejecting duplicates.
func (s *ProfileService) AddToWishlist(ctx context.Context, userID, productID string) ([]primitive.ObjectID, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid product id")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	if user.InWishlist(pid) {
		return nil, apperr.BadRequest("Product already in wishlist")
	}

	user.Wishlist = append(user.Wishlist, pid)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// RemoveFromWishlist filters a product reference out; an absent id is not
// an error.
func (s *ProfileService) RemoveFromWishlist(ctx context.Context, userID, productID string) ([]primitive.ObjectID, error) {
	pid, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, apperr.BadRequest("Invalid product id")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	user.RemoveFromWishlist(pid)
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user.Wishlist, nil
}

// Wishlist returns the user's wishlisted products, populated. References to
// deleted products are skipped.
func (s *ProfileService) Wishlist(ctx context.Context, userID string) ([]models.Product, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}

	products := make([]models.Product, 0, len(user.Wishlist))
	for _, pid := range user.Wishlist {
		p, err := s.products.FindByID(ctx, pid)
		if err != nil {
			return nil, err
		}
		if p != nil {
			products = append(products, *p)
		}
	}
	return products, nil
}

// ListUsers is the admin user listing with filters and pagination.
func (s *ProfileService) ListUsers(ctx context.Context, f repositories.UserFilter) ([]models.User, Pagination, error) {
	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, Pagination{}, err
	}
	return users, NewPagination(total, f.Page, f.Limit), nil
}
