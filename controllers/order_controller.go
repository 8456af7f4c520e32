package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"ecommerce/database"
	"ecommerce/models"
	"ecommerce/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stockReservation struct {
	ProductID primitive.ObjectID
	Quantity  int
}

func Checkout(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	// Body is optional; an empty or missing body means no coupon.
	var body struct {
		CouponCode string `json:"couponCode"`
	}
	_ = c.ShouldBindJSON(&body)

	identity := services.UserIdentity{UserID: *userID}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cart, err := cartService.GetCart(ctx, identity)
	if err != nil {
		fail(c, err)
		return
	}
	if len(cart.Items) == 0 {
		respondError(c, http.StatusBadRequest, "Cart is empty")
		return
	}

	// Validate everything before touching stock.
	products := make(map[string]models.Product, len(cart.Items))
	var subtotal float64
	for _, item := range cart.Items {
		var product models.Product
		err := database.ProductCollection.FindOne(ctx, bson.M{"_id": item.ProductID}).Decode(&product)
		// Checkout and AddItem share the purchasability rule: a product
		// unpublished after it entered a cart cannot be bought either.
		if err != nil || !product.Purchasable() {
			respondError(c, http.StatusNotFound, "Product no longer available")
			return
		}
		if item.Quantity > product.Stock {
			fail(c, &services.OutOfStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			})
			return
		}
		products[item.ProductID.Hex()] = product
		subtotal += product.Price * float64(item.Quantity)
	}

	var coupon *models.Coupon
	var discount float64
	if body.CouponCode != "" {
		coupon, err = couponService.Validate(ctx, body.CouponCode, *userID, subtotal)
		if err != nil {
			fail(c, err)
			return
		}
		discount = couponService.Discount(coupon, subtotal)
	}

	// Decrement stock with a guard per product, rolling back on failure.
	var reserved []stockReservation
	for _, item := range cart.Items {
		result, err := database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": item.ProductID, "stock": bson.M{"$gte": item.Quantity}},
			bson.M{"$inc": bson.M{"stock": -item.Quantity}},
		)
		if err != nil || result.ModifiedCount == 0 {
			rollbackStock(ctx, reserved)
			product := products[item.ProductID.Hex()]
			fail(c, &services.OutOfStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			})
			return
		}
		reserved = append(reserved, stockReservation{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product := products[item.ProductID.Hex()]
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	order := models.Order{
		ID:        primitive.NewObjectID(),
		Number:    uuid.NewString(),
		UserID:    *userID,
		Items:     orderItems,
		Subtotal:  subtotal,
		Discount:  discount,
		Total:     subtotal - discount,
		Status:    models.OrderStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if coupon != nil {
		order.CouponCode = coupon.Code
	}

	if _, err := database.OrderCollection.InsertOne(ctx, order); err != nil {
		rollbackStock(ctx, reserved)
		respondError(c, http.StatusInternalServerError, "Failed to create order")
		return
	}

	if coupon != nil {
		if err := couponService.Redeem(ctx, coupon, *userID, order.ID); err != nil {
			// The order already exists; losing the redeem race drops the
			// discount rather than the order.
			_, _ = database.OrderCollection.UpdateOne(ctx, bson.M{"_id": order.ID},
				bson.M{"$set": bson.M{"discount": 0.0, "total": subtotal, "couponCode": ""}})
			order.Discount = 0
			order.Total = subtotal
			order.CouponCode = ""
		}
	}

	if _, err := cartService.Clear(ctx, identity); err != nil {
		log.Println("failed to clear cart after checkout:", err)
	}

	respond(c, http.StatusCreated, "Checkout success", order)
}

func rollbackStock(ctx context.Context, reserved []stockReservation) {
	for _, r := range reserved {
		_, _ = database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": r.ProductID},
			bson.M{"$inc": bson.M{"stock": r.Quantity}},
		)
	}
}

func GetOrders(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.OrderCollection.Find(ctx, bson.M{"userId": *userID, "deletedAt": nil})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode orders")
		return
	}

	respond(c, http.StatusOK, "Fetch orders success", orders)
}

// CancelOrder lets a buyer cancel their own pending order, restoring the
// reserved stock.
func CancelOrder(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := cancelOrderByFilter(ctx, bson.M{"_id": id, "userId": *userID, "deletedAt": nil}); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Order cancelled", gin.H{"id": id.Hex()})
}
