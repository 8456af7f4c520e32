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

// UpdateUser lets an admin change a user's role or status.
func UpdateUser(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var body struct {
		Role   *string `json:"role"`
		Status *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{}
	if body.Role != nil {
		switch *body.Role {
		case models.RoleCustomer, models.RoleSeller, models.RoleAdmin:
			update["role"] = *body.Role
		default:
			fail(c, &services.ValidationError{Field: "role", Message: "must be customer, seller or admin"})
			return
		}
	}
	if body.Status != nil {
		switch *body.Status {
		case models.UserStatusActive, models.UserStatusBlocked:
			update["status"] = *body.Status
		default:
			fail(c, &services.ValidationError{Field: "status", Message: "must be active or blocked"})
			return
		}
	}
	if len(update) == 0 {
		respondError(c, http.StatusBadRequest, "Nothing to update")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err := database.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deletedAt": nil}, bson.M{"$set": update}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update user")
		return
	}

	respond(c, http.StatusOK, "User updated", updated)
}

func GetUsersAdmin(c *gin.Context) { listActive(c, userLifecycle, "users") }
func GetDeletedUsers(c *gin.Context) { listDeleted(c, userLifecycle, "users") }
func SoftDeleteUser(c *gin.Context) { softDelete(c, userLifecycle, "user") }
func RestoreUser(c *gin.Context) { restore(c, userLifecycle, "user") }
func HardDeleteUser(c *gin.Context) { hardDelete(c, userLifecycle, "user") }
