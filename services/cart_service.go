package services

import (
	"context"
	"errors"
	"time"

	"ecommerce/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

// CartStore is the persistence contract for carts. Every mutation is a
// single guarded update against one cart document so that concurrent
// mutations for the same identity cannot lose each other's writes. The
// boolean results report whether the guarded update matched a document.
type CartStore interface {
	Get(ctx context.Context, id CartIdentity) (*models.Cart, error)
	Create(ctx context.Context, id CartIdentity) (*models.Cart, error)
	// IncrementItem adds by to the quantity of an existing line item.
	IncrementItem(ctx context.Context, id CartIdentity, productID primitive.ObjectID, by int) (bool, error)
	// PushItem appends a new line item, guarded so it cannot duplicate an
	// existing product reference.
	PushItem(ctx context.Context, id CartIdentity, item models.CartItem) (bool, error)
	SetItemQuantity(ctx context.Context, id CartIdentity, productID primitive.ObjectID, quantity int) (bool, error)
	PullItem(ctx context.Context, id CartIdentity, productID primitive.ObjectID) (bool, error)
	ClearItems(ctx context.Context, id CartIdentity) (bool, error)
}

// ProductStore is the read side the cart needs for stock checks.
type ProductStore interface {
	Get(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
}

type CartService struct {
	carts    CartStore
	products ProductStore
}

func NewCartService(carts CartStore, products ProductStore) *CartService {
	return &CartService{carts: carts, products: products}
}

// GetCart returns the cart for the identity, or NotFoundError when none
// exists yet.
func (s *CartService) GetCart(ctx context.Context, id CartIdentity) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, id)
	if errors.Is(err, ErrCartNotFound) {
		return nil, &NotFoundError{Resource: "cart"}
	}
	return cart, err
}

// GetOrCreate finds the cart for the identity, creating an empty one when
// absent. The created flag is explicit so callers never have to infer
// "just created" from timestamps.
func (s *CartService) GetOrCreate(ctx context.Context, id CartIdentity) (*models.Cart, bool, error) {
	cart, err := s.carts.Get(ctx, id)
	if err == nil {
		return cart, false, nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return nil, false, err
	}
	cart, err = s.carts.Create(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return cart, true, nil
}

// AddItem adds quantity of a product to the cart, accumulating onto an
// existing line item when present. The message distinguishes the two
// outcomes for the client.
func (s *CartService) AddItem(ctx context.Context, id CartIdentity, productID primitive.ObjectID, quantity int) (*models.Cart, bool, string, error) {
	if quantity < 1 {
		return nil, false, "", &ValidationError{Field: "quantity", Message: "must be a positive integer"}
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, false, "", err
	}

	// Creation waits until the add is known to succeed, so a rejected add
	// against a fresh identity leaves no empty cart document behind.
	existing := 0
	cart, err := s.carts.Get(ctx, id)
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, false, "", err
	}
	if cart != nil {
		existing = cart.Quantity(productID)
	}

	if existing+quantity > product.Stock {
		return nil, false, "", &OutOfStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   existing + quantity,
		}
	}

	created := false
	if cart == nil {
		if _, err := s.carts.Create(ctx, id); err != nil {
			return nil, false, "", err
		}
		created = true
	}

	message := "Item added to cart"
	if existing > 0 {
		message = "Item quantity increased"
		if _, err := s.carts.IncrementItem(ctx, id, productID, quantity); err != nil {
			return nil, false, "", err
		}
	} else {
		pushed, err := s.carts.PushItem(ctx, id, models.CartItem{ProductID: productID, Quantity: quantity})
		if err != nil {
			return nil, false, "", err
		}
		if !pushed {
			// Lost the race against a concurrent add of the same product;
			// fold the quantity into the line that beat us.
			message = "Item quantity increased"
			if _, err := s.carts.IncrementItem(ctx, id, productID, quantity); err != nil {
				return nil, false, "", err
			}
		}
	}

	cart, err = s.carts.Get(ctx, id)
	if err != nil {
		return nil, false, "", err
	}
	return cart, created, message, nil
}

// UpdateItemQuantity sets the absolute quantity of a line item. A quantity
// of zero removes the line entirely.
func (s *CartService) UpdateItemQuantity(ctx context.Context, id CartIdentity, productID primitive.ObjectID, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Message: "must not be negative"}
	}

	cart, err := s.carts.Get(ctx, id)
	if errors.Is(err, ErrCartNotFound) {
		return nil, &NotFoundError{Resource: "cart"}
	}
	if err != nil {
		return nil, err
	}
	if cart.Quantity(productID) == 0 {
		return nil, &NotFoundError{Resource: "cart item"}
	}

	if quantity == 0 {
		if _, err := s.carts.PullItem(ctx, id, productID); err != nil {
			return nil, err
		}
		return s.carts.Get(ctx, id)
	}

	product, err := s.availableProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, &OutOfStockError{
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}

	if _, err := s.carts.SetItemQuantity(ctx, id, productID, quantity); err != nil {
		return nil, err
	}
	return s.carts.Get(ctx, id)
}

// RemoveItem removes a line item. Removing an absent item, or from an
// absent cart, is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, id CartIdentity, productID primitive.ObjectID) (*models.Cart, error) {
	if _, err := s.carts.PullItem(ctx, id, productID); err != nil {
		return nil, err
	}
	return s.currentOrEmpty(ctx, id)
}

// Clear empties the cart's items. The cart document, if any, persists.
func (s *CartService) Clear(ctx context.Context, id CartIdentity) (*models.Cart, error) {
	if _, err := s.carts.ClearItems(ctx, id); err != nil {
		return nil, err
	}
	return s.currentOrEmpty(ctx, id)
}

func (s *CartService) currentOrEmpty(ctx context.Context, id CartIdentity) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, id)
	if errors.Is(err, ErrCartNotFound) {
		return emptyCart(id), nil
	}
	return cart, err
}

func (s *CartService) availableProduct(ctx context.Context, productID primitive.ObjectID) (*models.Product, error) {
	product, err := s.products.Get(ctx, productID)
	if errors.Is(err, ErrProductNotFound) {
		return nil, &NotFoundError{Resource: "product"}
	}
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, &NotFoundError{Resource: "product"}
	}
	return product, nil
}

func emptyCart(id CartIdentity) *models.Cart {
	now := time.Now()
	cart := &models.Cart{Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
	switch v := id.(type) {
	case UserIdentity:
		cart.UserID = &v.UserID
	case SessionIdentity:
		cart.SessionID = v.SessionID
	}
	return cart
}
