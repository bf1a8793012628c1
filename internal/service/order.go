package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrProductMissing    = errors.New("product no longer exists")
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("access denied")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrStatusTransition  = errors.New("status transition not allowed")
)

// OutOfStockError names the product that blocked a checkout.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock", e.ProductName)
}

var (
	taxRate          = decimal.RequireFromString("0.10")
	flatShippingFee  = decimal.NewFromInt(10)
	freeShippingOver = decimal.NewFromInt(100)
)

// Payment method labels honored by the mock verifier. Orders paid through
// either are marked paid at creation; anything else stays unpaid.
const (
	PaymentMethodCreditCard = "Credit Card"
	PaymentMethodPayPal     = "PayPal"
)

type OrderService struct {
	orderRepo   repository.OrderRepository
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	amqpCh      *amqp.Channel
}

func NewOrderService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, productRepo repository.ProductRepository, amqpCh *amqp.Channel) *OrderService {
	return &OrderService{orderRepo: orderRepo, userRepo: userRepo, productRepo: productRepo, amqpCh: amqpCh}
}

func computePrices(itemsPrice decimal.Decimal) dto.PriceBreakdown {
	taxPrice := itemsPrice.Mul(taxRate)
	shippingPrice := flatShippingFee
	if itemsPrice.GreaterThan(freeShippingOver) {
		shippingPrice = decimal.Zero
	}
	return dto.PriceBreakdown{
		ItemsPrice:    itemsPrice,
		TaxPrice:      taxPrice,
		ShippingPrice: shippingPrice,
		TotalPrice:    itemsPrice.Add(taxPrice).Add(shippingPrice),
	}
}

// Summary prices the current cart without creating anything. Dead product
// references are skipped here; View owns the pruning.
func (s *OrderService) Summary(ctx context.Context, userID primitive.ObjectID) (*dto.CheckoutSummaryResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, entry := range user.Cart {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	resp := &dto.CheckoutSummaryResponse{}
	itemsPrice := decimal.Zero
	for _, entry := range user.Cart {
		product, ok := products[entry.ProductID]
		if !ok {
			continue
		}
		itemsPrice = itemsPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		resp.Items = append(resp.Items, dto.CartItemResponse{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Brand:     product.Brand,
			URL:       product.URL,
			Price:     product.Price,
			InStock:   product.InStock,
			Quantity:  entry.Quantity,
		})
	}

	resp.Prices = computePrices(itemsPrice)
	return resp, nil
}

// PlaceOrder converts the user's cart into an immutable order. The pass over
// the cart aborts on the first missing or out-of-stock product; nothing is
// written until every entry validated. The three writes that follow (order
// insert, order-ref append, cart clear) are independent single-document
// updates with no surrounding transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, userID primitive.ObjectID, req dto.PlaceOrderRequest) (*model.Order, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if len(user.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, entry := range user.Cart {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	itemsPrice := decimal.Zero
	items := make([]model.OrderItem, 0, len(user.Cart))
	for _, entry := range user.Cart {
		product, ok := products[entry.ProductID]
		if !ok {
			return nil, ErrProductMissing
		}
		if !product.InStock {
			return nil, &OutOfStockError{ProductName: product.Name}
		}
		itemsPrice = itemsPrice.Add(product.Price.Mul(decimal.NewFromInt(int64(entry.Quantity))))
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Quantity:  entry.Quantity,
			Price:     product.Price,
		})
	}

	prices := computePrices(itemsPrice)

	billing := req.ShippingAddress
	if req.BillingAddress != nil {
		billing = *req.BillingAddress
	}

	order := &model.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      prices.ItemsPrice,
		TaxPrice:        prices.TaxPrice,
		ShippingPrice:   prices.ShippingPrice,
		TotalPrice:      prices.TotalPrice,
		Status:          model.OrderStatusPlaced,
	}

	if req.PaymentMethod == PaymentMethodCreditCard || req.PaymentMethod == PaymentMethodPayPal {
		now := time.Now().UTC()
		intentID := req.PaymentIntentID
		if intentID == "" {
			intentID = "mock_payment_" + uuid.NewString()
		}
		order.IsPaid = true
		order.PaidAt = &now
		order.PaymentResult = &model.PaymentResult{
			ID:           intentID,
			Status:       "succeeded",
			UpdateTime:   now.Format(time.RFC3339),
			EmailAddress: user.Email,
		}
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := s.userRepo.AppendOrder(ctx, userID, order.ID); err != nil {
		return nil, fmt.Errorf("link order to user: %w", err)
	}
	if err := s.userRepo.UpdateCart(ctx, userID, nil); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if s.amqpCh != nil {
		msg, _ := json.Marshal(model.OrderMessage{OrderID: order.ID, UserID: userID})
		_ = s.amqpCh.PublishWithContext(ctx, "", "orders", false, false, amqp.Publishing{
			ContentType:  "application/json",
			Body:         msg,
			DeliveryMode: amqp.Persistent,
		})
	}

	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, orderID, userID primitive.ObjectID, isAdmin bool) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.UserID != userID && !isAdmin {
		return nil, ErrOrderAccessDenied
	}
	return order, nil
}

func (s *OrderService) History(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

func (s *OrderService) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.orderRepo.ListAll(ctx)
}

// UpdateStatus applies an admin status change, holding the order to the
// placed -> processing -> shipped -> delivered pipeline with cancellation
// allowed until delivery.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, status model.OrderStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, order.Status, status)
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, status)
}
