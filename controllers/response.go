package controllers

import (
	"errors"
	"log"
	"net/http"

	"ecommerce/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// fail translates domain errors into the response envelope. Anything
// outside the taxonomy is logged and surfaced as a bare 500.
func fail(c *gin.Context, err error) {
	var validation *services.ValidationError
	var notFound *services.NotFoundError
	var outOfStock *services.OutOfStockError
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &validation):
		respondError(c, http.StatusBadRequest, validation.Error())
	case errors.As(err, &notFound):
		respondError(c, http.StatusNotFound, notFound.Error())
	case errors.As(err, &outOfStock):
		respondError(c, http.StatusConflict, outOfStock.Error())
	case errors.As(err, &conflict):
		respondError(c, http.StatusConflict, conflict.Error())
	default:
		log.Println("internal error:", err)
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// currentUserID returns the authenticated user id, or nil for anonymous
// requests (possible on routes behind OptionalAuthMiddleware).
func currentUserID(c *gin.Context) *primitive.ObjectID {
	value, exists := c.Get("userId")
	if !exists {
		return nil
	}
	hex, ok := value.(string)
	if !ok {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &oid
}

func parseObjectID(c *gin.Context, hex, field string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid "+field)
		return primitive.NilObjectID, false
	}
	return oid, true
}
