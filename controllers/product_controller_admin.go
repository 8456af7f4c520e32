package controllers

import (
	"context"
	"net/http"
	"time"

	"ecommerce/database"
	"ecommerce/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateProduct(c *gin.Context) {
	var body struct {
		Name         string   `json:"name" binding:"required"`
		Description  string   `json:"description" binding:"required"`
		Price        float64  `json:"price" binding:"required,gt=0"`
		Stock        int      `json:"stock" binding:"min=0"`
		CategoryID   string   `json:"categoryId"`
		Images       []string `json:"images"`
		PrimaryImage string   `json:"primaryImage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	product := models.Product{
		ID:           primitive.NewObjectID(),
		Name:         body.Name,
		Description:  body.Description,
		Price:        body.Price,
		Stock:        body.Stock,
		Images:       body.Images,
		PrimaryImage: body.PrimaryImage,
		Published:    false,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if product.Images == nil {
		product.Images = []string{}
	}
	if product.PrimaryImage == "" && len(product.Images) > 0 {
		product.PrimaryImage = product.Images[0]
	}

	if body.CategoryID != "" {
		categoryID, ok := parseObjectID(c, body.CategoryID, "categoryId")
		if !ok {
			return
		}
		var category models.Category
		err := database.CategoryCollection.FindOne(ctx, bson.M{"_id": categoryID, "deletedAt": nil}).Decode(&category)
		if err != nil {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		product.CategoryID = categoryID
	}

	if _, err := database.ProductCollection.InsertOne(ctx, product); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	respond(c, http.StatusCreated, "Product created", product)
}

func UpdateProduct(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var body struct {
		Name         *string   `json:"name"`
		Description  *string   `json:"description"`
		Price        *float64  `json:"price"`
		Stock        *int      `json:"stock"`
		CategoryID   *string   `json:"categoryId"`
		Images       *[]string `json:"images"`
		PrimaryImage *string   `json:"primaryImage"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}
	if body.Price != nil {
		if *body.Price <= 0 {
			respondError(c, http.StatusBadRequest, "Price must be positive")
			return
		}
		update["price"] = *body.Price
	}
	if body.Stock != nil {
		if *body.Stock < 0 {
			respondError(c, http.StatusBadRequest, "Stock must not be negative")
			return
		}
		update["stock"] = *body.Stock
	}
	if body.Images != nil {
		update["images"] = *body.Images
	}
	if body.PrimaryImage != nil {
		update["primaryImage"] = *body.PrimaryImage
	}
	update["updatedAt"] = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if body.CategoryID != nil {
		categoryID, ok := parseObjectID(c, *body.CategoryID, "categoryId")
		if !ok {
			return
		}
		var category models.Category
		err := database.CategoryCollection.FindOne(ctx, bson.M{"_id": categoryID, "deletedAt": nil}).Decode(&category)
		if err != nil {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		update["categoryId"] = categoryID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := database.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deletedAt": nil}, bson.M{"$set": update}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	respond(c, http.StatusOK, "Product updated", updated)
}

// PublishProduct toggles buyer visibility. Orthogonal to the soft-delete
// state: a deleted product stays hidden whatever its published flag says.
func PublishProduct(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var body struct {
		Published *bool `json:"published" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Product
	err := database.ProductCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deletedAt": nil},
		bson.M{"$set": bson.M{"published": *body.Published, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update product")
		return
	}

	message := "Product unpublished"
	if updated.Published {
		message = "Product published"
	}
	respond(c, http.StatusOK, message, updated)
}

func GetProductsAdmin(c *gin.Context) { listActive(c, productLifecycle, "products") }
func GetDeletedProducts(c *gin.Context) { listDeleted(c, productLifecycle, "products") }
func SoftDeleteProduct(c *gin.Context) { softDelete(c, productLifecycle, "product") }
func RestoreProduct(c *gin.Context) { restore(c, productLifecycle, "product") }
func HardDeleteProduct(c *gin.Context) { hardDelete(c, productLifecycle, "product") }
