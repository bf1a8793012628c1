package model

import (
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// DefaultAvatar is assigned at registration until the user uploads one.
const DefaultAvatar = "https://banner2.cleanpng.com/20180411/aow/avf1rwckw.webp"

type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty"`
	Username   string               `bson:"username"`
	Email      string               `bson:"email"`
	Password   string               `bson:"password"`
	Avatar     string               `bson:"avatar"`
	Role       string               `bson:"role"`
	Favourites []primitive.ObjectID `bson:"favourites"`
	Cart       []CartEntry          `bson:"cart"`
	Orders     []primitive.ObjectID `bson:"orders"`
	CreatedAt  time.Time            `bson:"createdAt"`
	UpdatedAt  time.Time            `bson:"updatedAt"`
}

// CartEntry is one (product, quantity) pair in a user's embedded cart.
// At most one entry exists per product; quantity is always >= 1.
type CartEntry struct {
	ProductID primitive.ObjectID `bson:"product"`
	Quantity  int                `bson:"quantity"`
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	URL         string             `bson:"url"`
	Name        string             `bson:"name"`
	Brand       string             `bson:"brand"`
	Price       decimal.Decimal    `bson:"price"`
	Description string             `bson:"description"`
	Features    []string           `bson:"features"`
	Category    string             `bson:"category"`
	InStock     bool               `bson:"inStock"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

var Categories = []string{"Luxury", "Sports", "Smart", "Vintage", "Casual"}

func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderStatusPlaced     OrderStatus = "placed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo enforces the linear fulfillment pipeline. Cancellation is
// reachable from any state that has not yet been delivered.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next == OrderStatusCancelled {
		return s != OrderStatusDelivered && s != OrderStatusCancelled
	}
	switch s {
	case OrderStatusPlaced:
		return next == OrderStatusProcessing
	case OrderStatusProcessing:
		return next == OrderStatusShipped
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	}
	return false
}

type Address struct {
	FullName   string `bson:"fullName" json:"full_name"`
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postalCode" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// PaymentResult is the synthesized confirmation from the mock payment
// verifier. A real gateway would populate this from its webhook.
type PaymentResult struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	UserID          primitive.ObjectID `bson:"user"`
	Items           []OrderItem        `bson:"items"`
	ShippingAddress Address            `bson:"shippingAddress"`
	BillingAddress  Address            `bson:"billingAddress"`
	PaymentMethod   string             `bson:"paymentMethod"`
	ItemsPrice      decimal.Decimal    `bson:"itemsPrice"`
	TaxPrice        decimal.Decimal    `bson:"taxPrice"`
	ShippingPrice   decimal.Decimal    `bson:"shippingPrice"`
	TotalPrice      decimal.Decimal    `bson:"totalPrice"`
	IsPaid          bool               `bson:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty"`
	PaymentResult   *PaymentResult     `bson:"paymentResult,omitempty"`
	Status          OrderStatus        `bson:"status"`
	CreatedAt       time.Time          `bson:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt"`
}

// OrderItem snapshots the unit price at checkout time. Price is never read
// back from the product after the order exists.
type OrderItem struct {
	ProductID primitive.ObjectID `bson:"product"`
	Quantity  int                `bson:"quantity"`
	Price     decimal.Decimal    `bson:"price"`
}

type OrderMessage struct {
	OrderID primitive.ObjectID `json:"order_id"`
	UserID  primitive.ObjectID `json:"user_id"`
}
