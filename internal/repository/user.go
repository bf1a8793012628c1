package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/luxwatch/luxwatch-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateCart(ctx context.Context, userID primitive.ObjectID, cart []model.CartEntry) error
	AppendOrder(ctx context.Context, userID, orderID primitive.ObjectID) error
	AddFavourite(ctx context.Context, userID, productID primitive.ObjectID) error
	RemoveFavourite(ctx context.Context, userID, productID primitive.ObjectID) error
}

type mongoUserRepo struct{ coll *mongo.Collection }

func NewUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepo{coll: db.Collection(usersCollection)}
}

func (r *mongoUserRepo) Create(ctx context.Context, user *model.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Favourites == nil {
		user.Favourites = []primitive.ObjectID{}
	}
	if user.Cart == nil {
		user.Cart = []model.CartEntry{}
	}
	if user.Orders == nil {
		user.Orders = []primitive.ObjectID{}
	}

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (r *mongoUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	user := &model.User{}
	err := r.coll.FindOne(ctx, filter).Decode(user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (r *mongoUserRepo) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

// UpdateCart replaces the whole embedded cart array. There is no version
// token, so concurrent writers for the same user race (last write wins).
func (r *mongoUserRepo) UpdateCart(ctx context.Context, userID primitive.ObjectID, cart []model.CartEntry) error {
	if cart == nil {
		cart = []model.CartEntry{}
	}
	return r.updateByID(ctx, userID, bson.M{"$set": bson.M{"cart": cart, "updatedAt": time.Now().UTC()}})
}

func (r *mongoUserRepo) AppendOrder(ctx context.Context, userID, orderID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{
		"$push": bson.M{"orders": orderID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepo) AddFavourite(ctx context.Context, userID, productID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{
		"$addToSet": bson.M{"favourites": productID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepo) RemoveFavourite(ctx context.Context, userID, productID primitive.ObjectID) error {
	return r.updateByID(ctx, userID, bson.M{
		"$pull": bson.M{"favourites": productID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *mongoUserRepo) updateByID(ctx context.Context, id primitive.ObjectID, update bson.M) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
