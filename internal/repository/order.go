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

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error
}

type mongoOrderRepo struct{ coll *mongo.Collection }

func NewOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepo{coll: db.Collection(ordersCollection)}
}

func (r *mongoOrderRepo) Create(ctx context.Context, order *model.Order) error {
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now

	res, err := r.coll.InsertOne(ctx, order)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	order.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	order := &model.Order{}
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *mongoOrderRepo) ListByUserID(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	return r.list(ctx, bson.M{"user": userID})
}

func (r *mongoOrderRepo) ListAll(ctx context.Context) ([]model.Order, error) {
	return r.list(ctx, bson.M{})
}

func (r *mongoOrderRepo) list(ctx context.Context, filter bson.M) ([]model.Order, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []model.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, fmt.Errorf("decode orders: %w", err)
	}
	return orders, nil
}

func (r *mongoOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status model.OrderStatus) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
