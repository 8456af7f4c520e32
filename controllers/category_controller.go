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

func GetCategoriesPublic(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.CategoryCollection.Find(ctx, bson.M{"deletedAt": nil})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode categories")
		return
	}

	respond(c, http.StatusOK, "Fetch categories success", categories)
}

func CreateCategory(c *gin.Context) {
	var body struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.Category
	err := database.CategoryCollection.FindOne(ctx, bson.M{"name": body.Name, "deletedAt": nil}).Decode(&existing)
	if err == nil {
		respondError(c, http.StatusConflict, "Category already exists")
		return
	}

	category := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        body.Name,
		Description: body.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if _, err := database.CategoryCollection.InsertOne(ctx, category); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create category")
		return
	}

	respond(c, http.StatusCreated, "Category created", category)
}

func UpdateCategory(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if body.Name != nil {
		update["name"] = *body.Name
	}
	if body.Description != nil {
		update["description"] = *body.Description
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Category
	err := database.CategoryCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "deletedAt": nil}, bson.M{"$set": update}, opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update category")
		return
	}

	respond(c, http.StatusOK, "Category updated", updated)
}

func GetCategoriesAdmin(c *gin.Context) { listActive(c, categoryLifecycle, "categories") }
func GetDeletedCategories(c *gin.Context) { listDeleted(c, categoryLifecycle, "categories") }
func SoftDeleteCategory(c *gin.Context) { softDelete(c, categoryLifecycle, "category") }
func RestoreCategory(c *gin.Context) { restore(c, categoryLifecycle, "category") }
func HardDeleteCategory(c *gin.Context) { hardDelete(c, categoryLifecycle, "category") }
