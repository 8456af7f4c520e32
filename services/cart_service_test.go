package services

import (
	"context"
	"testing"

	"ecommerce/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestProduct(name string, stock int) models.Product {
	return models.Product{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Price:     9.99,
		Stock:     stock,
		Published: true,
	}
}

func TestCartService_AddItem_RejectsNonPositiveQuantity(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	for _, quantity := range []int{0, -1, -42} {
		_, _, _, err := svc.AddItem(context.Background(), identity, product.ID, quantity)

		var validation *ValidationError
		require.ErrorAs(t, err, &validation)
		assert.Equal(t, "quantity", validation.Field)
	}
}

func TestCartService_AddItem_UnknownProduct(t *testing.T) {
	svc := NewCartService(newMemCartStore(), newMemProductStore())
	identity := SessionIdentity{SessionID: "s1"}

	_, _, _, err := svc.AddItem(context.Background(), identity, primitive.NewObjectID(), 1)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCartService_AddItem_HiddenProductsAreNotFound(t *testing.T) {
	unpublished := newTestProduct("hidden", 10)
	unpublished.Published = false

	deleted := newTestProduct("gone", 10)
	deletedAt := deleted.CreatedAt
	deleted.DeletedAt = &deletedAt

	svc := NewCartService(newMemCartStore(), newMemProductStore(unpublished, deleted))
	identity := SessionIdentity{SessionID: "s1"}

	for _, productID := range []primitive.ObjectID{unpublished.ID, deleted.ID} {
		_, _, _, err := svc.AddItem(context.Background(), identity, productID, 1)

		var notFound *NotFoundError
		require.ErrorAs(t, err, &notFound)
	}
}

func TestCartService_AddItem_AccumulatesIntoSingleLine(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	cart, created, message, err := svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, created, "first add should create the cart")
	assert.Equal(t, "Item added to cart", message)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	cart, created, message, err = svc.AddItem(context.Background(), identity, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, created, "second add reuses the existing cart")
	assert.Equal(t, "Item quantity increased", message)
	require.Len(t, cart.Items, 1, "same product must not produce a second line item")
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCartService_AddItem_StockBoundary(t *testing.T) {
	product := newTestProduct("p2", 5)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	cart, _, _, err := svc.AddItem(context.Background(), identity, product.ID, 5)
	require.NoError(t, err, "adding exactly the available stock succeeds")
	assert.Equal(t, 5, cart.Quantity(product.ID))

	_, _, _, err = svc.AddItem(context.Background(), identity, product.ID, 1)
	var outOfStock *OutOfStockError
	require.ErrorAs(t, err, &outOfStock)
	assert.Equal(t, 5, outOfStock.Available)
	assert.Equal(t, 6, outOfStock.Requested)

	cart, err = svc.GetCart(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, 5, cart.Quantity(product.ID), "failed add must not change the cart")
}

func TestCartService_AddItem_RejectedAddCreatesNoCart(t *testing.T) {
	product := newTestProduct("p2", 5)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "fresh"}

	_, _, _, err := svc.AddItem(context.Background(), identity, product.ID, 6)
	var outOfStock *OutOfStockError
	require.ErrorAs(t, err, &outOfStock)

	_, err = svc.GetCart(context.Background(), identity)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound, "rejected add must not leave an empty cart behind")

	cart, created, _, err := svc.AddItem(context.Background(), identity, product.ID, 5)
	require.NoError(t, err)
	assert.True(t, created, "first successful add still creates the cart")
	assert.Equal(t, 5, cart.Quantity(product.ID))
}

func TestCartService_AddItem_UserAndSessionCartsAreSeparate(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	userID := primitive.NewObjectID()

	_, _, _, err := svc.AddItem(context.Background(), UserIdentity{UserID: userID}, product.ID, 2)
	require.NoError(t, err)
	_, _, _, err = svc.AddItem(context.Background(), SessionIdentity{SessionID: "s1"}, product.ID, 3)
	require.NoError(t, err)

	userCart, err := svc.GetCart(context.Background(), UserIdentity{UserID: userID})
	require.NoError(t, err)
	sessionCart, err := svc.GetCart(context.Background(), SessionIdentity{SessionID: "s1"})
	require.NoError(t, err)

	assert.Equal(t, 2, userCart.Quantity(product.ID))
	assert.Equal(t, 3, sessionCart.Quantity(product.ID))
}

func TestCartService_UpdateItemQuantity_SetsAbsoluteValue(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	_, _, _, err := svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(context.Background(), identity, product.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Quantity(product.ID), "update overwrites, it does not increment")
}

func TestCartService_UpdateItemQuantity_ZeroRemovesLine(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	_, _, _, err := svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.UpdateItemQuantity(context.Background(), identity, product.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items, "quantity zero removes the line item entirely")
}

func TestCartService_UpdateItemQuantity_Errors(t *testing.T) {
	product := newTestProduct("p1", 5)
	other := newTestProduct("p2", 5)
	store := newMemCartStore()
	svc := NewCartService(store, newMemProductStore(product, other))
	identity := SessionIdentity{SessionID: "s1"}

	var notFound *NotFoundError
	_, err := svc.UpdateItemQuantity(context.Background(), identity, product.ID, 1)
	require.ErrorAs(t, err, &notFound, "no cart yet")

	_, _, _, err = svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(context.Background(), identity, other.ID, 1)
	require.ErrorAs(t, err, &notFound, "item not in cart")

	var validation *ValidationError
	_, err = svc.UpdateItemQuantity(context.Background(), identity, product.ID, -1)
	require.ErrorAs(t, err, &validation)

	var outOfStock *OutOfStockError
	_, err = svc.UpdateItemQuantity(context.Background(), identity, product.ID, 6)
	require.ErrorAs(t, err, &outOfStock)

	cart, err := svc.GetCart(context.Background(), identity)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Quantity(product.ID), "failed updates leave the cart unchanged")
}

func TestCartService_RemoveItem_IsIdempotent(t *testing.T) {
	product := newTestProduct("p1", 10)
	svc := NewCartService(newMemCartStore(), newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	// Removing from a cart that does not exist is a no-op, not an error.
	cart, err := svc.RemoveItem(context.Background(), identity, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	_, _, _, err = svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)

	cart, err = svc.RemoveItem(context.Background(), identity, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// And again, now that the item is already gone.
	cart, err = svc.RemoveItem(context.Background(), identity, product.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_Clear_KeepsDocument(t *testing.T) {
	product := newTestProduct("p1", 10)
	store := newMemCartStore()
	svc := NewCartService(store, newMemProductStore(product))
	identity := SessionIdentity{SessionID: "s1"}

	_, _, _, err := svc.AddItem(context.Background(), identity, product.ID, 2)
	require.NoError(t, err)

	cart, err := svc.Clear(context.Background(), identity)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	// The document survives: a subsequent add does not create a new cart.
	_, created, _, err := svc.AddItem(context.Background(), identity, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, created)

	// Clearing twice is fine.
	cart, err = svc.Clear(context.Background(), identity)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartService_GetCart_NotFound(t *testing.T) {
	svc := NewCartService(newMemCartStore(), newMemProductStore())

	_, err := svc.GetCart(context.Background(), SessionIdentity{SessionID: "nope"})

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCartService_GetOrCreate_ReportsCreation(t *testing.T) {
	svc := NewCartService(newMemCartStore(), newMemProductStore())
	identity := UserIdentity{UserID: primitive.NewObjectID()}

	cart, created, err := svc.GetOrCreate(context.Background(), identity)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, cart.UserID)
	assert.Equal(t, identity.UserID, *cart.UserID)
	assert.Empty(t, cart.SessionID, "user carts must not carry a session id")

	_, created, err = svc.GetOrCreate(context.Background(), identity)
	require.NoError(t, err)
	assert.False(t, created)
}
