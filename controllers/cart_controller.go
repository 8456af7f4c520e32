package controllers

import (
	"context"
	"net/http"
	"time"

	"ecommerce/models"
	"ecommerce/services"

	"github.com/gin-gonic/gin"
)

// SessionHeader carries the anonymous cart token. When the resolver mints
// a new token it is echoed back in the same header; a client that drops it
// gets a fresh cart on every request.
const SessionHeader = "session-id"

func resolveIdentity(c *gin.Context) services.CartIdentity {
	identity, generated := services.ResolveCartIdentity(currentUserID(c), c.GetHeader(SessionHeader))
	if generated {
		if session, ok := identity.(services.SessionIdentity); ok {
			c.Header(SessionHeader, session.SessionID)
		}
	}
	return identity
}

func GetCart(c *gin.Context) {
	identity := resolveIdentity(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cartService.GetCart(ctx, identity)
	if err != nil {
		fail(c, err)
		return
	}

	respond(c, http.StatusOK, "Fetch cart success", cartView(ctx, cart))
}

func AddCartItem(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, ok := parseObjectID(c, body.ProductID, "productId")
	if !ok {
		return
	}

	identity := resolveIdentity(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, created, message, err := cartService.AddItem(ctx, identity, productID, body.Quantity)
	if err != nil {
		fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond(c, status, message, cartView(ctx, cart))
}

func UpdateCartItem(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, ok := parseObjectID(c, body.ProductID, "productId")
	if !ok {
		return
	}

	identity := resolveIdentity(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cartService.UpdateItemQuantity(ctx, identity, productID, *body.Quantity)
	if err != nil {
		fail(c, err)
		return
	}

	message := "Cart updated"
	if *body.Quantity == 0 {
		message = "Item removed from cart"
	}
	respond(c, http.StatusOK, message, cartView(ctx, cart))
}

func RemoveCartItem(c *gin.Context) {
	var body struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	productID, ok := parseObjectID(c, body.ProductID, "productId")
	if !ok {
		return
	}

	identity := resolveIdentity(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cartService.RemoveItem(ctx, identity, productID)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Item removed from cart", cartView(ctx, cart))
}

func ClearCart(c *gin.Context) {
	identity := resolveIdentity(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cart, err := cartService.Clear(ctx, identity)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Cart cleared", cartView(ctx, cart))
}

// cartView populates product details onto the cart's line items for
// display. The service itself only deals in ids and quantities.
func cartView(ctx context.Context, cart *models.Cart) gin.H {
	items := []gin.H{}
	var total float64

	for _, item := range cart.Items {
		line := gin.H{
			"productId": item.ProductID,
			"quantity":  item.Quantity,
		}

		product, err := cartProducts.Get(ctx, item.ProductID)
		if err == nil {
			subtotal := float64(item.Quantity) * product.Price
			line["name"] = product.Name
			line["price"] = product.Price
			line["images"] = product.Images
			line["primaryImage"] = product.PrimaryImage
			line["subtotal"] = subtotal
			total += subtotal
		}

		items = append(items, line)
	}

	view := gin.H{
		"id":        cart.ID,
		"items":     items,
		"total":     total,
		"createdAt": cart.CreatedAt,
		"updatedAt": cart.UpdatedAt,
	}
	if cart.UserID != nil {
		view["userId"] = cart.UserID
	}
	if cart.SessionID != "" {
		view["sessionId"] = cart.SessionID
	}
	return view
}
