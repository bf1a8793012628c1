package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/model"
)

func newFavoritesFixture(t *testing.T) (*FavoritesService, *mockUserRepo, *mockProductRepo, primitive.ObjectID) {
	t.Helper()
	userRepo := newMockUserRepo()
	productRepo := newMockProductRepo()
	user := &model.User{Username: "johndoe", Email: "john@example.com"}
	require.NoError(t, userRepo.Create(context.Background(), user))
	return NewFavoritesService(userRepo, productRepo), userRepo, productRepo, user.ID
}

func TestFavoritesService_Add(t *testing.T) {
	svc, userRepo, productRepo, userID := newFavoritesFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	added, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.True(t, added)
	assert.Len(t, userRepo.users[userID].Favourites, 1)
}

func TestFavoritesService_Add_DuplicateIsNoOp(t *testing.T) {
	svc, userRepo, productRepo, userID := newFavoritesFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	added, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)
	assert.False(t, added)
	assert.Len(t, userRepo.users[userID].Favourites, 1)
}

func TestFavoritesService_Add_ProductNotFound(t *testing.T) {
	svc, _, _, userID := newFavoritesFixture(t)

	_, err := svc.Add(context.Background(), userID, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestFavoritesService_Remove(t *testing.T) {
	svc, userRepo, productRepo, userID := newFavoritesFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)
	_, err := svc.Add(context.Background(), userID, p.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), userID, p.ID))
	assert.Empty(t, userRepo.users[userID].Favourites)
}

func TestFavoritesService_Remove_AbsentIsNoOp(t *testing.T) {
	svc, _, productRepo, userID := newFavoritesFixture(t)
	p := seedProduct(productRepo, "Submariner", 9500, true)

	assert.NoError(t, svc.Remove(context.Background(), userID, p.ID))
}

func TestFavoritesService_View_SkipsDeletedWithoutPruning(t *testing.T) {
	svc, userRepo, productRepo, userID := newFavoritesFixture(t)
	kept := seedProduct(productRepo, "Kept", 100, true)
	doomed := seedProduct(productRepo, "Doomed", 200, true)
	_, err := svc.Add(context.Background(), userID, kept.ID)
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), userID, doomed.ID)
	require.NoError(t, err)

	delete(productRepo.products, doomed.ID)

	products, err := svc.View(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kept", products[0].Name)

	// Favourites keep the dead reference; only the cart self-heals on read.
	assert.Len(t, userRepo.users[userID].Favourites, 2)
}
