package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func addr(city string, isDefault bool) Address {
	return Address{
		FullName:  "Asha Verma",
		Street:    "12 MG Road",
		City:      city,
		State:     "Maharashtra",
		Zip:       "411001",
		Phone:     "9876543210",
		IsDefault: isDefault,
	}
}

func TestAddAddressAssignsID(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", false))
	require.Len(t, u.Addresses, 1)
	assert.False(t, u.Addresses[0].ID.IsZero())
}

func TestAddAddressKeepsSingleDefault(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", true))
	u.AddAddress(addr("Mumbai", true))
	u.AddAddress(addr("Nashik", false))

	d := u.DefaultAddress()
	require.NotNil(t, d)
	assert.Equal(t, "Mumbai", d.City)

	defaults := 0
	for _, a := range u.Addresses {
		if a.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestUpdateAddressMergesSetFields(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", false))
	id := u.Addresses[0].ID

	city := "Nashik"
	require.NoError(t, u.UpdateAddress(id, AddressPatch{City: &city}))
	assert.Equal(t, "Nashik", u.Addresses[0].City)
	assert.Equal(t, "12 MG Road", u.Addresses[0].Street)
}

func TestUpdateAddressPromotesDefault(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", true))
	u.AddAddress(addr("Mumbai", false))

	yes := true
	require.NoError(t, u.UpdateAddress(u.Addresses[1].ID, AddressPatch{IsDefault: &yes}))
	assert.False(t, u.Addresses[0].IsDefault)
	assert.True(t, u.Addresses[1].IsDefault)
}

func TestUpdateAddressUnknownID(t *testing.T) {
	var u User
	err := u.UpdateAddress(primitive.NewObjectID(), AddressPatch{})
	assert.EqualError(t, err, "Address not found")
}

func TestRemoveAddressUnknownIDIsNoOp(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", false))

	u.RemoveAddress(primitive.NewObjectID())
	assert.Len(t, u.Addresses, 1)

	u.RemoveAddress(u.Addresses[0].ID)
	assert.Empty(t, u.Addresses)
}

func TestDefaultAddressNilWhenUnset(t *testing.T) {
	var u User
	u.AddAddress(addr("Pune", false))
	assert.Nil(t, u.DefaultAddress())
}

func TestWishlistHelpers(t *testing.T) {
	var u User
	pid := primitive.NewObjectID()

	assert.False(t, u.InWishlist(pid))
	u.Wishlist = append(u.Wishlist, pid)
	assert.True(t, u.InWishlist(pid))

	u.RemoveFromWishlist(primitive.NewObjectID())
	assert.Len(t, u.Wishlist, 1)

	u.RemoveFromWishlist(pid)
	assert.Empty(t, u.Wishlist)
}

func TestVerifiedNeedsBothChannels(t *testing.T) {
	u := User{PhoneVerified: true}
	assert.False(t, u.Verified())
	u.EmailVerified = true
	assert.True(t, u.Verified())
}

func TestOTPCredentialExpiry(t *testing.T) {
	issued := time.Now()
	c := OTPCredential{Hash: "x", IssuedAt: issued}

	assert.False(t, c.Expired(issued.Add(OTPTTL)))
	assert.True(t, c.Expired(issued.Add(OTPTTL+time.Second)))
}
