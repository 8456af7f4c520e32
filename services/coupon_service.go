package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecommerce/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrCouponNotFound = errors.New("coupon not found")

// CouponStore is the persistence contract for coupons. Redeem must append
// the usage record atomically, enforcing maxUsage in the same operation;
// it reports false when the limit guard rejected the write.
type CouponStore interface {
	GetByCode(ctx context.Context, code string) (*models.Coupon, error)
	Redeem(ctx context.Context, code string, usage models.CouponUsage, maxUsage *int) (bool, error)
}

type CouponService struct {
	store CouponStore
	now   func() time.Time
}

func NewCouponService(store CouponStore) *CouponService {
	return &CouponService{store: store, now: time.Now}
}

// NormalizeCouponCode upper-cases and trims a code; codes are stored
// normalized.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks that the coupon can be applied by the given user to a
// purchase of the given subtotal, and returns it.
func (s *CouponService) Validate(ctx context.Context, code string, userID primitive.ObjectID, subtotal float64) (*models.Coupon, error) {
	coupon, err := s.store.GetByCode(ctx, NormalizeCouponCode(code))
	if errors.Is(err, ErrCouponNotFound) {
		return nil, &NotFoundError{Resource: "coupon"}
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	switch {
	case coupon.Status != models.CouponStatusActive:
		return nil, &ValidationError{Field: "code", Message: "coupon is not active"}
	case now.Before(coupon.StartDate):
		return nil, &ValidationError{Field: "code", Message: "coupon is not valid yet"}
	case now.After(coupon.ExpirationDate):
		return nil, &ValidationError{Field: "code", Message: "coupon has expired"}
	case subtotal < coupon.MinimumPurchase:
		return nil, &ValidationError{Field: "code", Message: "minimum purchase not met"}
	}

	if coupon.MaxUsage != nil && len(coupon.UsedBy) >= *coupon.MaxUsage {
		return nil, &ConflictError{Message: "coupon usage limit reached"}
	}
	if coupon.MaxUsagePerUser > 0 && coupon.UsageCountFor(userID) >= coupon.MaxUsagePerUser {
		return nil, &ConflictError{Message: "coupon already used the maximum number of times"}
	}

	return coupon, nil
}

// Discount computes the amount taken off a subtotal by a coupon. Fixed
// discounts never exceed the subtotal.
func (s *CouponService) Discount(coupon *models.Coupon, subtotal float64) float64 {
	switch coupon.Type {
	case models.CouponTypePercentage:
		return subtotal * coupon.Value / 100
	case models.CouponTypeFixed:
		if coupon.Value > subtotal {
			return subtotal
		}
		return coupon.Value
	}
	return 0
}

// Redeem records a usage of the coupon. The store enforces maxUsage
// atomically; losing that race yields a ConflictError.
func (s *CouponService) Redeem(ctx context.Context, coupon *models.Coupon, userID, orderID primitive.ObjectID) error {
	usage := models.CouponUsage{UserID: userID, OrderID: orderID, UsedAt: s.now()}
	matched, err := s.store.Redeem(ctx, coupon.Code, usage, coupon.MaxUsage)
	if err != nil {
		return err
	}
	if !matched {
		return &ConflictError{Message: "coupon usage limit reached"}
	}
	return nil
}

// ValidateCouponDefinition checks the shape of a coupon being created or
// updated by an admin.
func ValidateCouponDefinition(coupon *models.Coupon) error {
	if NormalizeCouponCode(coupon.Code) == "" {
		return &ValidationError{Field: "code", Message: "is required"}
	}
	switch coupon.Type {
	case models.CouponTypePercentage:
		if coupon.Value < 0 || coupon.Value > 100 {
			return &ValidationError{Field: "value", Message: "percentage must be between 0 and 100"}
		}
	case models.CouponTypeFixed:
		if coupon.Value <= 0 {
			return &ValidationError{Field: "value", Message: "must be positive"}
		}
	default:
		return &ValidationError{Field: "type", Message: "must be percentage or fixed"}
	}
	if coupon.MinimumPurchase < 0 {
		return &ValidationError{Field: "minimumPurchase", Message: "must not be negative"}
	}
	if coupon.MaxUsage != nil && *coupon.MaxUsage < 1 {
		return &ValidationError{Field: "maxUsage", Message: "must be at least 1 when set"}
	}
	if coupon.MaxUsagePerUser < 0 {
		return &ValidationError{Field: "maxUsagePerUser", Message: "must not be negative"}
	}
	if !coupon.ExpirationDate.After(coupon.StartDate) {
		return &ValidationError{Field: "expirationDate", Message: "must be after startDate"}
	}
	switch coupon.Status {
	case models.CouponStatusActive, models.CouponStatusInactive:
	default:
		return &ValidationError{Field: "status", Message: "must be active or inactive"}
	}
	return nil
}
