package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/luxwatch/luxwatch-api/internal/model"
)

// --- Auth ---

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

type ProfileResponse struct {
	ID         string             `json:"id"`
	Username   string             `json:"username"`
	Email      string             `json:"email"`
	Avatar     string             `json:"avatar"`
	Role       string             `json:"role"`
	Cart       []CartItemResponse `json:"cart"`
	Favourites []string           `json:"favourites"`
	Orders     []string           `json:"orders"`
	CreatedAt  time.Time          `json:"created_at"`
}

// --- Product ---

type CreateProductRequest struct {
	URL         string          `json:"url" binding:"required"`
	Name        string          `json:"name" binding:"required"`
	Brand       string          `json:"brand" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Features    []string        `json:"features" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	InStock     *bool           `json:"in_stock"`
}

type UpdateProductRequest struct {
	URL         *string          `json:"url"`
	Name        *string          `json:"name"`
	Brand       *string          `json:"brand"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Features    *[]string        `json:"features"`
	Category    *string          `json:"category"`
	InStock     *bool            `json:"in_stock"`
}

type ListProductsRequest struct {
	Category string `form:"category"`
	Brand    string `form:"brand"`
	InStock  *bool  `form:"in_stock"`
}

type ProductResponse struct {
	ID          string          `json:"id"`
	URL         string          `json:"url"`
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Features    []string        `json:"features"`
	Category    string          `json:"category"`
	InStock     bool            `json:"in_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int               `json:"total"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

type UpdateCartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type CartItemResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	URL       string          `json:"url"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"in_stock"`
	Quantity  int             `json:"quantity"`
}

// CartResponse reports pruned product ids so callers can tell a plain read
// from a read that also repaired the stored cart.
type CartResponse struct {
	Items  []CartItemResponse `json:"items"`
	Pruned []string           `json:"pruned,omitempty"`
}

// --- Checkout / Order ---

type PlaceOrderRequest struct {
	ShippingAddress model.Address  `json:"shipping_address" binding:"required"`
	BillingAddress  *model.Address `json:"billing_address"`
	PaymentMethod   string         `json:"payment_method" binding:"required"`
	PaymentIntentID string         `json:"payment_intent_id"`
}

type PriceBreakdown struct {
	ItemsPrice    decimal.Decimal `json:"items_price"`
	TaxPrice      decimal.Decimal `json:"tax_price"`
	ShippingPrice decimal.Decimal `json:"shipping_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
}

type CheckoutSummaryResponse struct {
	Items  []CartItemResponse `json:"items"`
	Prices PriceBreakdown     `json:"prices"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID              string               `json:"id"`
	UserID          string               `json:"user_id"`
	Items           []OrderItemResponse  `json:"items"`
	ShippingAddress model.Address        `json:"shipping_address"`
	BillingAddress  model.Address        `json:"billing_address"`
	PaymentMethod   string               `json:"payment_method"`
	Prices          PriceBreakdown       `json:"prices"`
	IsPaid          bool                 `json:"is_paid"`
	PaidAt          *time.Time           `json:"paid_at,omitempty"`
	PaymentResult   *model.PaymentResult `json:"payment_result,omitempty"`
	Status          model.OrderStatus    `json:"status"`
	CreatedAt       time.Time            `json:"created_at"`
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int             `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

// --- Payment (mock) ---

type CreatePaymentIntentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type PaymentIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret"`
}

type VerifyPaymentRequest struct {
	PaymentIntentID string          `json:"payment_intent_id" binding:"required"`
	Amount          decimal.Decimal `json:"amount"`
}

type VerifyPaymentResponse struct {
	ID       string          `json:"id"`
	Status   string          `json:"status"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
	Created  int64           `json:"created"`
}
