package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"

	CouponStatusActive   = "active"
	CouponStatusInactive = "inactive"
)

type Coupon struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code            string             `bson:"code" json:"code"`
	Type            string             `bson:"type" json:"type"`
	Value           float64            `bson:"value" json:"value"`
	MinimumPurchase float64            `bson:"minimumPurchase" json:"minimumPurchase"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	ExpirationDate  time.Time          `bson:"expirationDate" json:"expirationDate"`
	MaxUsage        *int               `bson:"maxUsage,omitempty" json:"maxUsage,omitempty"`
	MaxUsagePerUser int                `bson:"maxUsagePerUser" json:"maxUsagePerUser"`
	Status          string             `bson:"status" json:"status"`
	UsedBy          []CouponUsage      `bson:"usedBy" json:"usedBy"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type CouponUsage struct {
	UserID  primitive.ObjectID `bson:"userId" json:"userId"`
	OrderID primitive.ObjectID `bson:"orderId,omitempty" json:"orderId,omitempty"`
	UsedAt  time.Time          `bson:"usedAt" json:"usedAt"`
}

func (c *Coupon) UsageCountFor(userID primitive.ObjectID) int {
	count := 0
	for _, usage := range c.UsedBy {
		if usage.UserID == userID {
			count++
		}
	}
	return count
}
