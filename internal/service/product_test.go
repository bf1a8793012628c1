package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/luxwatch/luxwatch-api/internal/dto"
	"github.com/luxwatch/luxwatch-api/internal/model"
	"github.com/luxwatch/luxwatch-api/internal/repository"
)

type mockProductRepo struct {
	products map[primitive.ObjectID]*model.Product
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{products: make(map[primitive.ObjectID]*model.Product)}
}

func (m *mockProductRepo) Create(_ context.Context, product *model.Product) error {
	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id primitive.ObjectID) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Product, error) {
	result := make(map[primitive.ObjectID]model.Product, len(ids))
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			result[id] = *p
		}
	}
	return result, nil
}

func (m *mockProductRepo) List(_ context.Context, filter repository.ListFilter) ([]model.Product, error) {
	var products []model.Product
	for _, p := range m.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Brand != "" && p.Brand != filter.Brand {
			continue
		}
		if filter.InStock != nil && p.InStock != *filter.InStock {
			continue
		}
		products = append(products, *p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products, nil
}

func (m *mockProductRepo) Recent(_ context.Context, limit int64) ([]model.Product, error) {
	products, _ := m.List(context.Background(), repository.ListFilter{})
	if int64(len(products)) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (m *mockProductRepo) Update(_ context.Context, product *model.Product) error {
	if _, ok := m.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *product
	m.products[product.ID] = &cp
	return nil
}

func (m *mockProductRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := m.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func seedProduct(repo *mockProductRepo, name string, price int64, inStock bool) *model.Product {
	p := &model.Product{
		URL:      "https://example.com/" + name + ".jpg",
		Name:     name,
		Brand:    "Acme",
		Price:    decimal.NewFromInt(price),
		Category: "Luxury",
		InStock:  inStock,
	}
	_ = repo.Create(context.Background(), p)
	return p
}

func TestProductService_Create(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo, nil)

	resp, err := svc.Create(context.Background(), dto.CreateProductRequest{
		URL:         "https://example.com/submariner.jpg",
		Name:        "Submariner",
		Brand:       "Rolex",
		Price:       decimal.NewFromInt(9500),
		Description: "Dive watch",
		Features:    []string{"300m water resistance"},
		Category:    "Luxury",
	})
	require.NoError(t, err)
	assert.True(t, resp.InStock, "stock flag defaults to true")
	assert.Len(t, repo.products, 1)
}

func TestProductService_Create_InvalidCategory(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)

	_, err := svc.Create(context.Background(), dto.CreateProductRequest{
		URL: "u", Name: "n", Brand: "b", Price: decimal.NewFromInt(1),
		Description: "d", Features: []string{}, Category: "Digital",
	})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestProductService_GetByID_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)

	_, err := svc.GetByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_Update_Partial(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo, nil)
	p := seedProduct(repo, "Speedmaster", 6000, true)

	newPrice := decimal.NewFromInt(6500)
	resp, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(newPrice))
	assert.Equal(t, "Speedmaster", resp.Name, "untouched fields survive")
}

func TestProductService_Update_InvalidCategory(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo, nil)
	p := seedProduct(repo, "Speedmaster", 6000, true)

	bad := "Digital"
	_, err := svc.Update(context.Background(), p.ID, dto.UpdateProductRequest{Category: &bad})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestProductService_Delete_NotFound(t *testing.T) {
	svc := NewProductService(newMockProductRepo(), nil)

	err := svc.Delete(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_List_FiltersByBrand(t *testing.T) {
	repo := newMockProductRepo()
	svc := NewProductService(repo, nil)
	seedProduct(repo, "One", 100, true)
	other := seedProduct(repo, "Two", 200, true)
	other.Brand = "Other"
	repo.products[other.ID].Brand = "Other"

	resp, err := svc.List(context.Background(), dto.ListProductsRequest{Brand: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "One", resp.Products[0].Name)
}
