package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

// FavoritesService keeps a per-user set of product references. Uniqueness is
// enforced here and backed by $addToSet at the store, not left to incidental
// schema behavior.
type FavoritesService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

func NewFavoritesService(userRepo repository.UserRepository, productRepo repository.ProductRepository) *FavoritesService {
	return &FavoritesService{userRepo: userRepo, productRepo: productRepo}
}

// Add returns false without writing when the product is already a favourite.
func (s *FavoritesService) Add(ctx context.Context, userID, productID primitive.ObjectID) (bool, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return false, ErrProductNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	for _, id := range user.Favourites {
		if id == productID {
			return false, nil
		}
	}

	if err := s.userRepo.AddFavourite(ctx, userID, productID); err != nil {
		return false, fmt.Errorf("add favourite: %w", err)
	}
	return true, nil
}

// Remove is a no-op when the product is not a favourite.
func (s *FavoritesService) Remove(ctx context.Context, userID, productID primitive.ObjectID) error {
	if err := s.userRepo.RemoveFavourite(ctx, userID, productID); err != nil {
		return fmt.Errorf("remove favourite: %w", err)
	}
	return nil
}

// View resolves favourites to live products. Unlike the cart, dead references
// are skipped but not pruned from storage.
func (s *FavoritesService) View(ctx context.Context, userID primitive.ObjectID) ([]model.Product, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	products, err := s.productRepo.GetByIDs(ctx, user.Favourites)
	if err != nil {
		return nil, fmt.Errorf("resolve favourites: %w", err)
	}

	result := make([]model.Product, 0, len(user.Favourites))
	for _, id := range user.Favourites {
		if p, ok := products[id]; ok {
			result = append(result, p)
		}
	}
	return result, nil
}
