package controllers

import (
	"context"
	"net/http"
	"time"

	"ecommerce/database"
	"ecommerce/models"
	"ecommerce/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// orderTransitions maps a status to the statuses an admin may move it to.
var orderTransitions = map[string][]string{
	models.OrderStatusPending: {models.OrderStatusPaid, models.OrderStatusCancelled},
	models.OrderStatusPaid:    {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped: {models.OrderStatusDelivered},
}

func transitionAllowed(from, to string) bool {
	for _, allowed := range orderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func GetOrderByIDAdmin(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.Order
	err := database.OrderCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	respond(c, http.StatusOK, "Fetch order success", order)
}

func UpdateOrderStatus(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if body.Status == models.OrderStatusCancelled {
		if err := cancelOrderByFilter(ctx, bson.M{"_id": id, "deletedAt": nil}); err != nil {
			fail(c, err)
			return
		}
		respond(c, http.StatusOK, "Order cancelled", gin.H{"id": id.Hex()})
		return
	}

	var order models.Order
	err := database.OrderCollection.FindOne(ctx, bson.M{"_id": id, "deletedAt": nil}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch order")
		return
	}

	if !transitionAllowed(order.Status, body.Status) {
		fail(c, &services.ValidationError{
			Field:   "status",
			Message: "cannot move order from " + order.Status + " to " + body.Status,
		})
		return
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err = database.OrderCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": order.Status},
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		fail(c, &services.ConflictError{Message: "order status changed concurrently"})
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update order")
		return
	}

	respond(c, http.StatusOK, "Order status updated", updated)
}

// cancelOrderByFilter cancels an order still in a cancellable status and
// returns its reserved stock. The status guard in the update filter keeps
// a concurrent transition from cancelling twice.
func cancelOrderByFilter(ctx context.Context, filter bson.M) error {
	cancellable := make(bson.M, len(filter)+1)
	for k, v := range filter {
		cancellable[k] = v
	}
	cancellable["status"] = bson.M{"$in": []string{models.OrderStatusPending, models.OrderStatusPaid}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var order models.Order
	err := database.OrderCollection.FindOneAndUpdate(ctx, cancellable,
		bson.M{"$set": bson.M{"status": models.OrderStatusCancelled, "updatedAt": time.Now()}},
		opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return &services.NotFoundError{Resource: "cancellable order"}
	}
	if err != nil {
		return err
	}

	for _, item := range order.Items {
		_, _ = database.ProductCollection.UpdateOne(ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"stock": item.Quantity}},
		)
	}
	return nil
}

func GetOrdersAdmin(c *gin.Context) { listActive(c, orderLifecycle, "orders") }
func GetDeletedOrders(c *gin.Context) { listDeleted(c, orderLifecycle, "orders") }
func SoftDeleteOrder(c *gin.Context) { softDelete(c, orderLifecycle, "order") }
func RestoreOrder(c *gin.Context) { restore(c, orderLifecycle, "order") }
func HardDeleteOrder(c *gin.Context) { hardDelete(c, orderLifecycle, "order") }
