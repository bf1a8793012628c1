package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/model"
)

func newCartFixture(t *testing.T) (*CartService, *mockUserRepo, *mockProductRepo, primitive.ObjectID) {
	t.Helper()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	user := &model.User{Username: "johndoe", Email: "john@example.com"}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return NewCartService(userRepo, productRepo), userRepo, productRepo, user.ID
}

func TestCartService_Add_NewEntry(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	quantity, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, quantity)
	assert.Len(t, userRepo.users[userID].Cart, 1)
}

func TestCartService_Add_RepeatedAddsIncrementSingleEntry(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	var quantity int
	var err error
	for i := 0; i < 5; i++ {
		quantity, err = svc.Add(context.Background(), userID, p.ID)
		require.NoError(t, err)
	}

	assert.Equal(t, 5, quantity)
	cart := userRepo.users[userID].Cart
	require.Len(t, cart, 1, "repeated adds must not create duplicate entries")
	assert.Equal(t, 5, cart[0].Quantity)
}

func TestCartService_Add_ProductNotFound(t *testing.T) {
	svc, _, _, userID := newCartFixture(t)

	_, err := svc.Add(context.Background(), userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCartService_Remove_DecrementsAboveOne(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	for i := 0; i < 3; i++ {
		_, err := svc.Add(context.Background(), userID, p.ID)
		require.NoError(t, err)
	}

	quantity, err := svc.Remove(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, quantity)
	assert.Len(t, userRepo.users[userID].Cart, 1)
}

func TestCartService_Remove_DeletesEntryAtOne(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	_, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)

	quantity, err := svc.Remove(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, quantity)
	assert.Empty(t, userRepo.users[userID].Cart)
}

func TestCartService_Remove_NotFound(t *testing.T) {
	svc, _, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	_, err := svc.Remove(context.Background(), userID, p.ID)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_SetQuantity(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	_, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetQuantity(context.Background(), userID, p.ID, 7))
	assert.Equal(t, 7, userRepo.users[userID].Cart[0].Quantity)
}

func TestCartService_SetQuantity_RejectsBelowOne(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	_, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)

	for _, q := range []int{0, -1, -100} {
		err := svc.SetQuantity(context.Background(), userID, p.ID, q)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	}
	assert.Equal(t, 1, userRepo.users[userID].Cart[0].Quantity, "rejected updates must not mutate the cart")
}

func TestCartService_SetQuantity_NotFound(t *testing.T) {
	svc, _, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	err := svc.SetQuantity(context.Background(), userID, p.ID, 2)
	assert.ErrorIs(t, err, ErrCartItemNotFound)
}

func TestCartService_View_NewestFirst(t *testing.T) {
	svc, _, productRepo, userID := newCartFixture(t)
	first := seedProduct(productRepo, "First", 100, true)
	second := seedProduct(productRepo, "Second", 200, true)
	_, err := svc.Add(context.Background(), userID, first.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, second.ID)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Second", view.Items[0].Product.Name)
	assert.Equal(t, "First", view.Items[1].Product.Name)
}

func TestCartService_View_PrunesDeletedProducts(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	kept := seedProduct(productRepo, "Kept", 100, true)
	doomed := seedProduct(productRepo, "Doomed", 200, true)
	_, err := svc.Add(context.Background(), userID, kept.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, doomed.ID)
	require.NoError(t, err)

	delete(productRepo.products, doomed.ID)

	view, err := svc.View(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "Kept", view.Items[0].Product.Name)
	require.Len(t, view.Pruned, 1)
	assert.Equal(t, doomed.ID, view.Pruned[0])

	stored := userRepo.users[userID].Cart
	require.Len(t, stored, 1, "dead reference must be pruned from storage on read")
	assert.Equal(t, kept.ID, stored[0].ProductID)
}

func TestCartService_View_CleanCartDoesNotRewrite(t *testing.T) {
	svc, userRepo, productRepo, userID := newCartFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	_, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)

	view, err := svc.View(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, view.Pruned)
	assert.Len(t, userRepo.users[userID].Cart, 1)
}
