package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/pkg/apperr"
)

// Roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// OTPTTL is how long a one-time code stays valid after issuance.
const OTPTTL = 10 * time.Minute

// IndianStates is the closed set of valid address states.
var IndianStates = []string{
	"Andhra Pradesh", "Arunachal Pradesh", "Assam", "Bihar", "Chhattisgarh",
	"Goa", "Gujarat", "Haryana", "Himachal Pradesh", "Jharkhand", "Karnataka",
	"Kerala", "Madhya Pradesh", "Maharashtra", "Manipur", "Meghalaya",
	"Mizoram", "Nagaland", "Odisha", "Punjab", "Rajasthan", "Sikkim",
	"Tamil Nadu", "Telangana", "Tripura", "Uttar Pradesh", "Uttarakhand",
	"West Bengal", "Delhi", "Jammu and Kashmir", "Ladakh",
}

// JewelleryInterests users can pick from.
var JewelleryInterests = []string{
	"Rings", "Necklaces", "Bracelets", "Watches", "Brooches", "Anklets",
	"Cufflinks", "Earrings",
}

// Genders accepted on a profile.
var Genders = []string{"men", "women", "unisex"}

// OTPCredential is a short-lived one-time code. Only the bcrypt hash is
// stored; IssuedAt drives the TTL check. Never serialized to clients.
type OTPCredential struct {
	Hash     string    `bson:"hash" json:"-"`
	IssuedAt time.Time `bson:"issuedAt" json:"-"`
}

// Expired reports whether the code's validity window has passed.
func (c *OTPCredential) Expired(now time.Time) bool {
	return now.Sub(c.IssuedAt) > OTPTTL
}

// Address is a value object embedded in the User document.
type Address struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	FullName  string             `bson:"fullName" json:"fullName"`
	Street    string             `bson:"streetAddress" json:"streetAddress"`
	City      string             `bson:"city" json:"city"`
	State     string             `bson:"state" json:"state"`
	Zip       string             `bson:"zip" json:"zip"`
	Phone     string             `bson:"phone" json:"phone"`
	IsDefault bool               `bson:"isDefault" json:"isDefault"`
}

// AddressPatch carries the fields of an address update; nil means
// "leave unchanged".
type AddressPatch struct {
	FullName  *string
	Street    *string
	City      *string
	State     *string
	Zip       *string
	Phone     *string
	IsDefault *bool
}

// User is the identity document. Password and OTP never reach clients.
type User struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name               string               `bson:"name" json:"name"`
	Phone              string               `bson:"phone" json:"phone"`
	Email              string               `bson:"email" json:"email"`
	Password           string               `bson:"password" json:"-"`
	PasswordChangedAt  time.Time            `bson:"passwordChangedAt" json:"passwordChangedAt"`
	OTP                *OTPCredential       `bson:"otp,omitempty" json:"-"`
	Role               string               `bson:"role" json:"role"`
	PhoneVerified      bool                 `bson:"phoneVerified" json:"phoneVerified"`
	EmailVerified      bool                 `bson:"emailVerified" json:"emailVerified"`
	Age                int                  `bson:"age,omitempty" json:"age,omitempty"`
	Gender             string               `bson:"gender,omitempty" json:"gender,omitempty"`
	JewelleryInterests []string             `bson:"jewelleryInterests" json:"jewelleryInterests"`
	Addresses          []Address            `bson:"address" json:"address"`
	Wishlist           []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Verified reports whether both contact channels have been confirmed.
// Checkout requires both.
func (u *User) Verified() bool {
	return u.EmailVerified && u.PhoneVerified
}

// clearDefaults unsets IsDefault on every address.
func (u *User) clearDefaults() {
	for i := range u.Addresses {
		u.Addresses[i].IsDefault = false
	}
}

// AddAddress appends a new address. When the new address is the default,
// every existing default is unset first so at most one default survives.
func (u *User) AddAddress(a Address) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.IsDefault {
		u.clearDefaults()
	}
	u.Addresses = append(u.Addresses, a)
}

// UpdateAddress merges patch into the address with the given id; set fields
// win over existing values. Making an address the default unsets all others.
func (u *User) UpdateAddress(id primitive.ObjectID, patch AddressPatch) error {
	idx := -1
	for i := range u.Addresses {
		if u.Addresses[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return apperr.NotFound("Address not found")
	}

	if patch.IsDefault != nil && *patch.IsDefault {
		u.clearDefaults()
	}

	a := &u.Addresses[idx]
	if patch.FullName != nil {
		a.FullName = *patch.FullName
	}
	if patch.Street != nil {
		a.Street = *patch.Street
	}
	if patch.City != nil {
		a.City = *patch.City
	}
	if patch.State != nil {
		a.State = *patch.State
	}
	if patch.Zip != nil {
		a.Zip = *patch.Zip
	}
	if patch.Phone != nil {
		a.Phone = *patch.Phone
	}
	if patch.IsDefault != nil {
		a.IsDefault = *patch.IsDefault
	}
	return nil
}

// RemoveAddress filters out the address with the given id. An unmatched id
// is a silent no-op, mirroring the delete semantics of the update surface.
func (u *User) RemoveAddress(id primitive.ObjectID) {
	kept := u.Addresses[:0]
	for _, a := range u.Addresses {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	u.Addresses = kept
}

// DefaultAddress returns the current default, or nil when none is set.
func (u *User) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	return nil
}

// InWishlist reports whether productID is already wishlisted.
func (u *User) InWishlist(productID primitive.ObjectID) bool {
	for _, id := range u.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// RemoveFromWishlist filters productID out of the wishlist.
func (u *User) RemoveFromWishlist(productID primitive.ObjectID) {
	kept := u.Wishlist[:0]
	for _, id := range u.Wishlist {
		if id != productID {
			kept = append(kept, id)
		}
	}
	u.Wishlist = kept
}
