package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCartItemNotFound = errors.New("item not found in cart")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
)

// CartItem pairs a live product snapshot with the stored quantity.
type CartItem struct {
	Product  model.Product
	Quantity int
}

// CartView is the result of resolving a cart. Pruned lists product ids whose
// documents no longer exist; when non-empty the stored cart was rewritten
// without them as part of the read.
type CartView struct {
	Items  []CartItem
	Pruned []primitive.ObjectID
}

type CartService struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
}

func NewCartService(userRepo repository.UserRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{userRepo: userRepo, productRepo: productRepo}
}

// Add puts one unit of the product into the user's cart, incrementing the
// existing entry if there is one. Stock is deliberately not checked here:
// the cart records intent, not a reservation. Returns the resulting quantity.
func (s *CartService) Add(ctx context.Context, userID, productID primitive.ObjectID) (int, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return 0, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return 0, ErrProductNotFound
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	quantity := 1
	found := false
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			user.Cart[i].Quantity++
			quantity = user.Cart[i].Quantity
			found = true
			break
		}
	}
	if !found {
		user.Cart = append(user.Cart, model.CartEntry{ProductID: productID, Quantity: 1})
	}

	if err := s.userRepo.UpdateCart(ctx, userID, user.Cart); err != nil {
		return 0, fmt.Errorf("update cart: %w", err)
	}
	return quantity, nil
}

// Remove decrements the entry's quantity, deleting the entry when it drops
// below one. Returns the remaining quantity (zero when removed).
func (s *CartService) Remove(ctx context.Context, userID, productID primitive.ObjectID) (int, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return 0, ErrUserNotFound
	}

	idx := -1
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrCartItemNotFound
	}

	quantity := 0
	if user.Cart[idx].Quantity > 1 {
		user.Cart[idx].Quantity--
		quantity = user.Cart[idx].Quantity
	} else {
		user.Cart = append(user.Cart[:idx], user.Cart[idx+1:]...)
	}

	if err := s.userRepo.UpdateCart(ctx, userID, user.Cart); err != nil {
		return 0, fmt.Errorf("update cart: %w", err)
	}
	return quantity, nil
}

// SetQuantity overwrites the entry's quantity. Quantities below one are
// rejected before any read or write happens.
func (s *CartService) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	idx := -1
	for i := range user.Cart {
		if user.Cart[i].ProductID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return ErrCartItemNotFound
	}

	user.Cart[idx].Quantity = quantity
	if err := s.userRepo.UpdateCart(ctx, userID, user.Cart); err != nil {
		return fmt.Errorf("update cart: %w", err)
	}
	return nil
}

// View resolves every cart entry to its live product. Entries whose product
// was deleted are dropped from the result and pruned from the stored cart in
// the same call (lazy cleanup instead of a cascade delete on the product
// side). Items come back newest-added-first.
func (s *CartService) View(ctx context.Context, userID primitive.ObjectID) (*CartView, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	ids := make([]primitive.ObjectID, 0, len(user.Cart))
	for _, entry := range user.Cart {
		ids = append(ids, entry.ProductID)
	}
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve cart products: %w", err)
	}

	view := &CartView{}
	kept := make([]model.CartEntry, 0, len(user.Cart))
	for _, entry := range user.Cart {
		product, ok := products[entry.ProductID]
		if !ok {
			view.Pruned = append(view.Pruned, entry.ProductID)
			continue
		}
		kept = append(kept, entry)
		view.Items = append(view.Items, CartItem{Product: product, Quantity: entry.Quantity})
	}

	if len(view.Pruned) > 0 {
		if err := s.userRepo.UpdateCart(ctx, userID, kept); err != nil {
			return nil, fmt.Errorf("prune cart: %w", err)
		}
	}

	// Storage order is oldest-first; consumers read newest-first.
	for i, j := 0, len(view.Items)-1; i < j; i, j = i+1, j-1 {
		view.Items[i], view.Items[j] = view.Items[j], view.Items[i]
	}
	return view, nil
}
