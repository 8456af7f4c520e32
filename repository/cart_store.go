package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce/models"
	"ecommerce/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoCartStore keeps one cart document per identity. All item mutations
// are single guarded updates so concurrent requests for the same identity
// cannot lose each other's writes.
type MongoCartStore struct {
	coll *mongo.Collection
}

func NewMongoCartStore(coll *mongo.Collection) *MongoCartStore {
	return &MongoCartStore{coll: coll}
}

func identityFilter(id services.CartIdentity) bson.M {
	switch v := id.(type) {
	case services.UserIdentity:
		return bson.M{"userId": v.UserID}
	case services.SessionIdentity:
		return bson.M{"sessionId": v.SessionID}
	}
	return bson.M{}
}

func (s *MongoCartStore) Get(ctx context.Context, id services.CartIdentity) (*models.Cart, error) {
	var cart models.Cart
	err := s.coll.FindOne(ctx, identityFilter(id)).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}

func (s *MongoCartStore) Create(ctx context.Context, id services.CartIdentity) (*models.Cart, error) {
	now := time.Now()
	cart := models.Cart{
		ID:        primitive.NewObjectID(),
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch v := id.(type) {
	case services.UserIdentity:
		cart.UserID = &v.UserID
	case services.SessionIdentity:
		cart.SessionID = v.SessionID
	}

	if _, err := s.coll.InsertOne(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return &cart, nil
}

func (s *MongoCartStore) IncrementItem(ctx context.Context, id services.CartIdentity, productID primitive.ObjectID, by int) (bool, error) {
	filter := identityFilter(id)
	filter["items.productId"] = productID

	update := bson.M{
		"$inc": bson.M{"items.$.quantity": by},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to increment cart item: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoCartStore) PushItem(ctx context.Context, id services.CartIdentity, item models.CartItem) (bool, error) {
	// The $ne guard keeps a concurrent add of the same product from
	// producing two line items.
	filter := identityFilter(id)
	filter["items.productId"] = bson.M{"$ne": item.ProductID}

	update := bson.M{
		"$push": bson.M{"items": item},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to push cart item: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoCartStore) SetItemQuantity(ctx context.Context, id services.CartIdentity, productID primitive.ObjectID, quantity int) (bool, error) {
	filter := identityFilter(id)
	filter["items.productId"] = productID

	update := bson.M{
		"$set": bson.M{"items.$.quantity": quantity, "updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to set cart item quantity: %w", err)
	}
	return result.MatchedCount > 0, nil
}

func (s *MongoCartStore) PullItem(ctx context.Context, id services.CartIdentity, productID primitive.ObjectID) (bool, error) {
	update := bson.M{
		"$pull": bson.M{"items": bson.M{"productId": productID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, identityFilter(id), update)
	if err != nil {
		return false, fmt.Errorf("failed to remove cart item: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (s *MongoCartStore) ClearItems(ctx context.Context, id services.CartIdentity) (bool, error) {
	update := bson.M{
		"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, identityFilter(id), update)
	if err != nil {
		return false, fmt.Errorf("failed to clear cart: %w", err)
	}
	return result.MatchedCount > 0, nil
}
