package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. Transitions are not validated; an admin can set any value
// from this set at any time.
const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses is the closed set of valid order states.
var OrderStatuses = []string{OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled}

// Payment methods and statuses.
var (
	PaymentMethods  = []string{"COD", "Razorpay", "Stripe"}
	PaymentStatuses = []string{"pending", "paid", "failed"}
)

// OrderItem snapshots a product at checkout time. Price is captured once
// and never re-derived from the catalogue.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// ShippingInfo is the delivery address submitted at checkout.
type ShippingInfo struct {
	FullName string `bson:"fullName" json:"fullName" validate:"required,alpha_space"`
	Address  string `bson:"address" json:"address" validate:"required"`
	City     string `bson:"city" json:"city" validate:"required"`
	State    string `bson:"state" json:"state" validate:"required"`
	Pincode  string `bson:"pincode" json:"pincode" validate:"required,digits=6"`
	Phone    string `bson:"phone" json:"phone" validate:"required,digits=10"`
}

// PaymentInfo records how the order is paid.
type PaymentInfo struct {
	Method    string `bson:"method" json:"method"`
	Status    string `bson:"status" json:"status"`
	PaymentID string `bson:"paymentId,omitempty" json:"paymentId,omitempty"`
}

// Order is an immutable checkout snapshot. The four price fields are
// computed once at creation; only Status changes afterwards.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User          primitive.ObjectID `bson:"user" json:"user"`
	Items         []OrderItem        `bson:"items" json:"items"`
	ShippingInfo  ShippingInfo       `bson:"shippingInfo" json:"shippingInfo"`
	PaymentInfo   PaymentInfo        `bson:"paymentInfo" json:"paymentInfo"`
	ItemsPrice    float64            `bson:"itemsPrice" json:"itemsPrice"`
	TaxPrice      float64            `bson:"taxPrice" json:"taxPrice"`
	ShippingPrice float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice    float64            `bson:"totalPrice" json:"totalPrice"`
	Status        string             `bson:"status" json:"status"`
	IsDelivered   bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt   *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
