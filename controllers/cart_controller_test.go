package controllers

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce/middleware"
	"ecommerce/models"
	"ecommerce/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubCartStore mirrors the guarded-update semantics of the Mongo store so
// the handlers can run against real service wiring without a database.
type stubCartStore struct {
	carts map[services.CartIdentity]*models.Cart
}

func newStubCartStore() *stubCartStore {
	return &stubCartStore{carts: make(map[services.CartIdentity]*models.Cart)}
}

func (s *stubCartStore) Get(_ context.Context, id services.CartIdentity) (*models.Cart, error) {
	cart, ok := s.carts[id]
	if !ok {
		return nil, services.ErrCartNotFound
	}
	clone := *cart
	clone.Items = append([]models.CartItem{}, cart.Items...)
	return &clone, nil
}

func (s *stubCartStore) Create(_ context.Context, id services.CartIdentity) (*models.Cart, error) {
	now := time.Now()
	cart := &models.Cart{ID: primitive.NewObjectID(), Items: []models.CartItem{}, CreatedAt: now, UpdatedAt: now}
	switch v := id.(type) {
	case services.UserIdentity:
		uid := v.UserID
		cart.UserID = &uid
	case services.SessionIdentity:
		cart.SessionID = v.SessionID
	}
	s.carts[id] = cart
	return cart, nil
}

func (s *stubCartStore) IncrementItem(_ context.Context, id services.CartIdentity, productID primitive.ObjectID, by int) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity += by
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCartStore) PushItem(_ context.Context, id services.CartIdentity, item models.CartItem) (bool, error) {
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
	return true, nil
}

func (s *stubCartStore) SetItemQuantity(_ context.Context, id services.CartIdentity, productID primitive.ObjectID, quantity int) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items[i].Quantity = quantity
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCartStore) PullItem(_ context.Context, id services.CartIdentity, productID primitive.ObjectID) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubCartStore) ClearItems(_ context.Context, id services.CartIdentity) (bool, error) {
	cart, ok := s.carts[id]
	if !ok {
		return false, nil
	}
	cart.Items = []models.CartItem{}
	return true, nil
}

type stubCatalog struct {
	products map[primitive.ObjectID]models.Product
}

func newStubCatalog(products ...models.Product) *stubCatalog {
	s := &stubCatalog{products: make(map[primitive.ObjectID]models.Product)}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubCatalog) Get(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, services.ErrProductNotFound
	}
	return &product, nil
}

// newCartRouter wires the cart handlers to in-memory stores behind the same
// route group and middleware the app registers.
func newCartRouter(products ...models.Product) *gin.Engine {
	gin.SetMode(gin.TestMode)

	catalog := newStubCatalog(products...)
	cartService = services.NewCartService(newStubCartStore(), catalog)
	cartProducts = catalog

	r := gin.New()
	cart := r.Group("/api/cart")
	cart.Use(middleware.OptionalAuthMiddleware())
	{
		cart.GET("", GetCart)
		cart.POST("/items", AddCartItem)
		cart.PATCH("/items", UpdateCartItem)
		cart.DELETE("/items", RemoveCartItem)
		cart.DELETE("", ClearCart)
	}
	return r
}

type cartEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    struct {
		SessionID string  `json:"sessionId"`
		Total     float64 `json:"total"`
		Items     []struct {
			ProductID string  `json:"productId"`
			Quantity  int     `json:"quantity"`
			Name      string  `json:"name"`
			Subtotal  float64 `json:"subtotal"`
		} `json:"items"`
	} `json:"data"`
}

func addItemRequest(t *testing.T, r *gin.Engine, sessionID string, productID primitive.ObjectID, quantity int) (*httptest.ResponseRecorder, cartEnvelope) {
	t.Helper()

	body := fmt.Sprintf(`{"productId": %q, "quantity": %d}`, productID.Hex(), quantity)
	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}

	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	var envelope cartEnvelope
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &envelope))
	return res, envelope
}

func TestCartRoutes_GeneratedSessionTokenIsEchoed(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), Name: "p1", Price: 10, Stock: 5, Published: true}
	r := newCartRouter(product)

	res, envelope := addItemRequest(t, r, "", product.ID, 2)

	assert.Equal(t, http.StatusCreated, res.Code, "an add that creates the cart responds 201")
	require.True(t, envelope.Success)

	token := res.Header().Get(SessionHeader)
	require.NotEmpty(t, token, "a generated session token must reach the client")
	assert.Len(t, token, services.SessionTokenLength)
	_, err := hex.DecodeString(token)
	assert.NoError(t, err, "token is lowercase hex")
	assert.Equal(t, token, envelope.Data.SessionID)
}

func TestCartRoutes_SuppliedSessionTokenIsNotEchoed(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), Name: "p1", Price: 10, Stock: 5, Published: true}
	r := newCartRouter(product)

	res, first := addItemRequest(t, r, "", product.ID, 2)
	token := res.Header().Get(SessionHeader)
	require.NotEmpty(t, token)
	require.Equal(t, 2, first.Data.Items[0].Quantity)

	res, second := addItemRequest(t, r, token, product.ID, 3)

	assert.Equal(t, http.StatusOK, res.Code, "adding to an existing cart responds 200")
	assert.Empty(t, res.Header().Get(SessionHeader), "a client-supplied token is not echoed")
	require.Len(t, second.Data.Items, 1)
	assert.Equal(t, 5, second.Data.Items[0].Quantity)
	assert.Equal(t, "p1", second.Data.Items[0].Name)
	assert.Equal(t, 50.0, second.Data.Total)
}

func TestCartRoutes_GetWithoutCartIs404ButStillEchoesToken(t *testing.T) {
	r := newCartRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)

	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Len(t, res.Header().Get(SessionHeader), services.SessionTokenLength)
}

func TestCartRoutes_RejectedAddKeepsIdentityCartless(t *testing.T) {
	product := models.Product{ID: primitive.NewObjectID(), Name: "p1", Price: 10, Stock: 5, Published: true}
	r := newCartRouter(product)

	res, _ := addItemRequest(t, r, "client-token", product.ID, 6)
	assert.Equal(t, http.StatusConflict, res.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.Header.Set(SessionHeader, "client-token")
	getRes := httptest.NewRecorder()
	r.ServeHTTP(getRes, req)
	assert.Equal(t, http.StatusNotFound, getRes.Code, "a rejected add must not create the cart")

	res, _ = addItemRequest(t, r, "client-token", product.ID, 5)
	assert.Equal(t, http.StatusCreated, res.Code, "the first successful add still creates the cart")
}
