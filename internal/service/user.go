package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	cartSvc  *CartService
}

func NewUserService(userRepo repository.UserRepository, cartSvc *CartService) *UserService {
	return &UserService{userRepo: userRepo, cartSvc: cartSvc}
}

// Profile returns the user without the credential hash. The embedded cart is
// resolved through the cart view, so dead product references get repaired as
// a side effect of reading the profile.
func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	view, err := s.cartSvc.View(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("view cart: %w", err)
	}

	cart := make([]dto.CartItemResponse, 0, len(view.Items))
	for _, item := range view.Items {
		cart = append(cart, dto.CartItemResponse{
			ProductID: item.Product.ID.Hex(),
			Name:      item.Product.Name,
			Brand:     item.Product.Brand,
			URL:       item.Product.URL,
			Price:     item.Product.Price,
			InStock:   item.Product.InStock,
			Quantity:  item.Quantity,
		})
	}

	favourites := make([]string, 0, len(user.Favourites))
	for _, id := range user.Favourites {
		favourites = append(favourites, id.Hex())
	}
	orders := make([]string, 0, len(user.Orders))
	for _, id := range user.Orders {
		orders = append(orders, id.Hex())
	}

	return &dto.ProfileResponse{
		ID:         user.ID.Hex(),
		Username:   user.Username,
		Email:      user.Email,
		Avatar:     user.Avatar,
		Role:       user.Role,
		Cart:       cart,
		Favourites: favourites,
		Orders:     orders,
		CreatedAt:  user.CreatedAt,
	}, nil
}

func (s *UserService) List(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, toUserResponse(&users[i]))
	}
	return result, nil
}
