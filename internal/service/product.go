package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid category")
)

const (
	productCacheTTL  = 60 * time.Second
	recentProductCap = 4
)

type ProductService struct {
	productRepo repository.ProductRepository
	redisClient *redis.Client
}

func NewProductService(productRepo repository.ProductRepository, redisClient *redis.Client) *ProductService {
	return &ProductService{productRepo: productRepo, redisClient: redisClient}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !model.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	inStock := true
	if req.InStock != nil {
		inStock = *req.InStock
	}
	product := &model.Product{
		URL:         req.URL,
		Name:        req.Name,
		Brand:       req.Brand,
		Price:       req.Price,
		Description: req.Description,
		Features:    req.Features,
		Category:    req.Category,
		InStock:     inStock,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id primitive.ObjectID) (*dto.ProductResponse, error) {
	cacheKey := "product:" + id.Hex()

	if s.redisClient != nil {
		if cached, err := s.redisClient.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.ProductResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return &resp, nil
			}
		}
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	resp := toProductResponse(product)

	if s.redisClient != nil {
		if data, err := json.Marshal(resp); err == nil {
			s.redisClient.Set(ctx, cacheKey, data, productCacheTTL)
		}
	}

	return &resp, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	if req.Category != "" && !model.ValidCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	products, err := s.productRepo.List(ctx, repository.ListFilter{
		Category: req.Category,
		Brand:    req.Brand,
		InStock:  req.InStock,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: len(items)}, nil
}

func (s *ProductService) Recent(ctx context.Context) (*dto.ProductListResponse, error) {
	products, err := s.productRepo.Recent(ctx, recentProductCap)
	if err != nil {
		return nil, fmt.Errorf("list recent products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, toProductResponse(&products[i]))
	}
	return &dto.ProductListResponse{Products: items, Total: len(items)}, nil
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	if req.URL != nil {
		product.URL = *req.URL
	}
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Brand != nil {
		product.Brand = *req.Brand
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Features != nil {
		product.Features = *req.Features
	}
	if req.Category != nil {
		if !model.ValidCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		product.Category = *req.Category
	}
	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	s.invalidateCache(ctx, id)
	resp := toProductResponse(product)
	return &resp, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidateCache(ctx, id)
	return nil
}

func (s *ProductService) invalidateCache(ctx context.Context, id primitive.ObjectID) {
	if s.redisClient != nil {
		s.redisClient.Del(ctx, "product:"+id.Hex())
	}
}

func toProductResponse(p *model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID.Hex(),
		URL:         p.URL,
		Name:        p.Name,
		Brand:       p.Brand,
		Price:       p.Price,
		Description: p.Description,
		Features:    p.Features,
		Category:    p.Category,
		InStock:     p.InStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
