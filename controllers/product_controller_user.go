package controllers

import (
	"context"
	"net/http"
	"time"

	"ecommerce/database"
	"ecommerce/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProductsPublic lists products buyers can see: published and not
// soft-deleted, optionally filtered by category.
func GetProductsPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"published": true, "deletedAt": nil}
	if category := c.Query("category"); category != "" {
		categoryID, ok := parseObjectID(c, category, "category")
		if !ok {
			return
		}
		filter["categoryId"] = categoryID
	}

	cursor, err := database.ProductCollection.Find(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode products")
		return
	}

	respond(c, http.StatusOK, "Fetch products success", products)
}

func GetProductPublic(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err := database.ProductCollection.FindOne(ctx,
		bson.M{"_id": id, "published": true, "deletedAt": nil}).Decode(&product)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch product")
		return
	}

	respond(c, http.StatusOK, "Fetch product success", product)
}
