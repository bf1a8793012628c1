package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

type mockOrderRepo struct {
	orders map[primitive.ObjectID]*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[primitive.ObjectID]*model.Order)}
}

func (m *mockOrderRepo) Create(_ context.Context, order *model.Order) error {
	order.ID = primitive.NewObjectID()
	cp := *order
	m.orders[order.ID] = &cp
	return nil
}

func (m *mockOrderRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (m *mockOrderRepo) ListByUserID(_ context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			orders = append(orders, *o)
		}
	}
	return orders, nil
}

func (m *mockOrderRepo) ListAll(_ context.Context) ([]model.Order, error) {
	var orders []model.Order
	for _, o := range m.orders {
		orders = append(orders, *o)
	}
	return orders, nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, id primitive.ObjectID, status model.OrderStatus) error {
	o, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = status
	return nil
}

func newOrderFixture(t *testing.T) (*OrderService, *mockOrderRepo, *mockUserRepo, *mockProductRepo, primitive.ObjectID) {
	t.Helper()
	orderRepo := newMockOrderRepo()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	user := &model.User{Username: "johndoe", Email: "john@example.com"}
	require.NoError(t, userRepo.Create(context.Background(), user))
	svc := NewOrderService(orderRepo, userRepo, productRepo, nil)
	return svc, orderRepo, userRepo, productRepo, user.ID
}

func placeOrderRequest(method string) dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{
		ShippingAddress: model.Address{
			FullName:   "John Doe",
			Street:     "1 Main St",
			City:       "Geneva",
			PostalCode: "1201",
			Country:    "CH",
		},
		PaymentMethod: method,
	}
}

func TestOrderService_PlaceOrder_EmptyCart(t *testing.T) {
	svc, orderRepo, _, _, userID := newOrderFixture(t)

	_, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_PlaceOrder_OutOfStock(t *testing.T) {
	svc, orderRepo, userRepo, productRepo, userID := newOrderFixture(t)
	inStock := seedProduct(productRepo, "Daytona", 30000, true)
	gone := seedProduct(productRepo, "Nautilus", 80000, false)
	userRepo.users[userID].Cart = []model.CartEntry{
		{ProductID: inStock.ID, Quantity: 1},
		{ProductID: gone.ID, Quantity: 1},
	}

	_, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))

	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, "Nautilus", oos.ProductName)
	assert.Empty(t, orderRepo.orders, "a failed checkout must not create an order")
	assert.Len(t, userRepo.users[userID].Cart, 2, "a failed checkout must leave the cart intact")
}

func TestOrderService_PlaceOrder_ProductMissing(t *testing.T) {
	svc, orderRepo, userRepo, _, userID := newOrderFixture(t)
	userRepo.users[userID].Cart = []model.CartEntry{
		{ProductID: primitive.NewObjectID(), Quantity: 1},
	}

	_, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	assert.ErrorIs(t, err, ErrProductMissing)
	assert.Empty(t, orderRepo.orders)
}

func TestOrderService_PlaceOrder_Totals(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Speedmaster", 25, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 2}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	assert.True(t, order.ItemsPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, order.TaxPrice.Equal(decimal.NewFromInt(5)))
	assert.True(t, order.ShippingPrice.Equal(decimal.NewFromInt(10)), "orders at or under the threshold pay flat shipping")
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(65)))
}

func TestOrderService_PlaceOrder_FreeShippingOverThreshold(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Royal Oak", 150, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	assert.True(t, order.TaxPrice.Equal(decimal.NewFromInt(15)))
	assert.True(t, order.ShippingPrice.Equal(decimal.Zero))
	assert.True(t, order.TotalPrice.Equal(decimal.NewFromInt(165)))
}

func TestOrderService_PlaceOrder_ClearsCartAndLinksOrder(t *testing.T) {
	svc, orderRepo, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	assert.Len(t, orderRepo.orders, 1)
	stored := userRepo.users[userID]
	assert.Empty(t, stored.Cart)
	require.Len(t, stored.Orders, 1)
	assert.Equal(t, order.ID, stored.Orders[0])
	assert.Equal(t, model.OrderStatusPlaced, order.Status)
}

func TestOrderService_PlaceOrder_PriceSnapshot(t *testing.T) {
	svc, orderRepo, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	// Reprice the product after checkout; the order keeps what was charged.
	productRepo.products[p.ID].Price = decimal.NewFromInt(12000)

	stored, err := orderRepo.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.True(t, stored.Items[0].Price.Equal(decimal.NewFromInt(9500)))
}

func TestOrderService_PlaceOrder_CreditCardIsPaid(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	assert.True(t, order.IsPaid)
	require.NotNil(t, order.PaidAt)
	require.NotNil(t, order.PaymentResult)
	assert.Equal(t, "succeeded", order.PaymentResult.Status)
	assert.Equal(t, "john@example.com", order.PaymentResult.EmailAddress)
}

func TestOrderService_PlaceOrder_OtherMethodUnpaid(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}

	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest("Cash On Delivery"))
	require.NoError(t, err)

	assert.False(t, order.IsPaid)
	assert.Nil(t, order.PaidAt)
	assert.Nil(t, order.PaymentResult)
}

func TestOrderService_Summary(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Speedmaster", 25, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 2}}

	summary, err := svc.Summary(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 2, summary.Items[0].Quantity)
	assert.True(t, summary.Prices.TotalPrice.Equal(decimal.NewFromInt(65)))
	assert.Len(t, userRepo.users[userID].Cart, 1, "pricing a cart must not consume it")
}

func TestOrderService_Summary_EmptyCart(t *testing.T) {
	svc, _, _, _, userID := newOrderFixture(t)

	_, err := svc.Summary(context.Background(), userID)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestOrderService_GetByID_AccessControl(t *testing.T) {
	svc, _, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}
	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), order.ID, userID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	stranger := primitive.NewObjectID()
	_, err = svc.GetByID(context.Background(), order.ID, stranger, false)
	assert.ErrorIs(t, err, ErrOrderAccessDenied)

	got, err = svc.GetByID(context.Background(), order.ID, stranger, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	svc, _, _, _, userID := newOrderFixture(t)

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID(), userID, true)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_Transitions(t *testing.T) {
	svc, orderRepo, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}
	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	// Skipping a stage is rejected.
	err = svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped)
	assert.ErrorIs(t, err, ErrStatusTransition)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusProcessing))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusShipped))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusDelivered))

	// Delivered is terminal.
	err = svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrStatusTransition)
	assert.Equal(t, model.OrderStatusDelivered, orderRepo.orders[order.ID].Status)
}

func TestOrderService_UpdateStatus_CancelBeforeDelivery(t *testing.T) {
	svc, orderRepo, userRepo, productRepo, userID := newOrderFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	userRepo.users[userID].Cart = []model.CartEntry{{ProductID: p.ID, Quantity: 1}}
	order, err := svc.PlaceOrder(context.Background(), userID, placeOrderRequest(PaymentMethodCreditCard))
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusProcessing))
	require.NoError(t, svc.UpdateStatus(context.Background(), order.ID, model.OrderStatusCancelled))
	assert.Equal(t, model.OrderStatusCancelled, orderRepo.orders[order.ID].Status)
}

func TestOrderService_UpdateStatus_InvalidStatus(t *testing.T) {
	svc, _, _, _, _ := newOrderFixture(t)

	err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), model.OrderStatus("refunded"))
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
