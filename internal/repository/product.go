package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/luxwatch/luxwatch-api/internal/model"
)

// ListFilter narrows a catalog listing. Zero values mean "no constraint".
type ListFilter struct {
	Category string
	Brand    string
	InStock  *bool
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Product, error)
	List(ctx context.Context, filter ListFilter) ([]model.Product, error)
	Recent(ctx context.Context, limit int64) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoProductRepo struct{ coll *mongo.Collection }

func NewProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepo{coll: db.Collection(productsCollection)}
}

func (r *mongoProductRepo) Create(ctx context.Context, product *model.Product) error {
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, product)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	product.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product := &model.Product{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// GetByIDs resolves a batch of references in one query. Ids that no longer
// exist are simply absent from the result map.
func (r *mongoProductRepo) GetByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]model.Product, error) {
	result := make(map[primitive.ObjectID]model.Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	for _, p := range products {
		result[p.ID] = p
	}
	return result, nil
}

func (r *mongoProductRepo) List(ctx context.Context, filter ListFilter) ([]model.Product, error) {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Brand != "" {
		query["brand"] = filter.Brand
	}
	if filter.InStock != nil {
		query["inStock"] = *filter.InStock
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepo) Recent(ctx context.Context, limit int64) ([]model.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list recent products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []model.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (r *mongoProductRepo) Update(ctx context.Context, product *model.Product) error {
	product.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": bson.M{
		"url":         product.URL,
		"name":        product.Name,
		"brand":       product.Brand,
		"price":       product.Price,
		"description": product.Description,
		"features":    product.Features,
		"category":    product.Category,
		"inStock":     product.InStock,
		"updatedAt":   product.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
