package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecommerce/models"
	"ecommerce/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoCouponStore struct {
	coll *mongo.Collection
}

func NewMongoCouponStore(coll *mongo.Collection) *MongoCouponStore {
	return &MongoCouponStore{coll: coll}
}

func (s *MongoCouponStore) GetByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := s.coll.FindOne(ctx, bson.M{"code": code}).Decode(&coupon)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, services.ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	return &coupon, nil
}

func (s *MongoCouponStore) Redeem(ctx context.Context, code string, usage models.CouponUsage, maxUsage *int) (bool, error) {
	filter := bson.M{"code": code}
	if maxUsage != nil {
		// Matching only while usedBy has fewer than maxUsage entries makes
		// the limit check and the append one atomic update.
		filter[fmt.Sprintf("usedBy.%d", *maxUsage-1)] = bson.M{"$exists": false}
	}

	update := bson.M{
		"$push": bson.M{"usedBy": usage},
		"$set":  bson.M{"updatedAt": time.Now()},
	}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to redeem coupon: %w", err)
	}
	return result.MatchedCount > 0, nil
}
