package services

import (
	"context"
	"time"

	"ecommerce/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memCartStore mirrors the guarded-update semantics of the Mongo store:
// each mutation reports whether it matched a document in the state the
// guard requires.
type memCartStore struct {
	carts map[CartIdentity]*models.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[CartIdentity]*models.Cart)}
}

func cloneCart(cart *models.Cart) *models.Cart {
	clone := *cart
	clone.Items = append([]models.CartItem{}, cart.Items...)
	return &clone
}

func (s *memCartStore) Get(_ context.Context, id CartIdentity) (*models.Cart, error) {
	cart, ok := s.carts[id]
	if !ok {
		return nil, ErrCartNotFound
	}
	return cloneCart(cart), nil
}

func (s *memCartStore) Create(_ context.Context, id CartIdentity) (*models.Cart, error) {
	now := time.Now()
	cart := &models.Cart{
		ID:        primitive.NewObjectID(),
		Items:     []models.CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	switch v := id.(type) {
	case UserIdentity:
		uid := v.UserID
		cart.UserID = &uid
	case SessionIdentity:
		cart.SessionID = v.SessionID
	}
	s.carts[id] = cart
	return cloneCart(cart), nil
}

func (s *memCartStore) IncrementItem(_ context.Context, id CartIdentity, productID primitive.ObjectID, by int) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += by
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (s *memCartStore) PushItem(_ context.Context, id CartIdentity, item models.CartItem) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for _, existing := range cart.Items {
		if existing.ProductID == item.ProductID {
			return false, nil
		}
	}
	cart.Items = append(cart.Items, item)
	cart.UpdatedAt = time.Now()
	return true, nil
}

func (s *memCartStore) SetItemQuantity(_ context.Context, id CartIdentity, productID primitive.ObjectID, quantity int) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (s *memCartStore) PullItem(_ context.Context, id CartIdentity, productID primitive.ObjectID) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			cart.UpdatedAt = time.Now()
			return true, nil
		}
	}
	return false, nil
}

func (s *memCartStore) ClearItems(_ context.Context, id CartIdentity) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	cart.Items = []models.CartItem{}
	cart.UpdatedAt = time.Now()
	return true, nil
}

type memProductStore struct {
	products map[primitive.ObjectID]models.Product
}

func newMemProductStore(products ...models.Product) *memProductStore {
	s := &memProductStore{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *memProductStore) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

type memCouponStore struct {
	coupons map[string]*models.Coupon
}

func newMemCouponStore(coupons ...*models.Coupon) *memCouponStore {
	s := &memCouponStore{coupons: make(map[string]*models.Coupon)}
	for _, c := range coupons {
		s.coupons[c.Code] = c
	}
	return s
}

func (s *memCouponStore) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	coupon, ok := s.coupons[code]
	if !ok {
		return nil, ErrCouponNotFound
	}
	clone := *coupon
	clone.UsedBy = append([]models.CouponUsage{}, coupon.UsedBy...)
	return &clone, nil
}

func (s *memCouponStore) Redeem(_ context.Context, code string, usage models.CouponUsage, maxUsage *int) (bool, error) {
	coupon, ok := s.coupons[code]
	if !ok {
		return false, nil
	}
	if maxUsage != nil && len(coupon.UsedBy) >= *maxUsage {
		return false, nil
	}
	coupon.UsedBy = append(coupon.UsedBy, usage)
	return true, nil
}
