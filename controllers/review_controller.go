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
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func CreateReview(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	productID, ok := parseObjectID(c, c.Param("id"), "productId")
	if !ok {
		return
	}

	var body struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Rating < 1 || body.Rating > 5 {
		fail(c, &services.ValidationError{Field: "rating", Message: "must be between 1 and 5"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var product models.Product
	err := database.ProductCollection.FindOne(ctx, bson.M{"_id": productID, "deletedAt": nil}).Decode(&product)
	if err != nil {
		respondError(c, http.StatusNotFound, "Product not found")
		return
	}

	var existing models.Review
	err = database.ReviewCollection.FindOne(ctx, bson.M{"userId": *userID, "productId": productID}).Decode(&existing)
	if err == nil {
		fail(c, &services.ConflictError{Message: "product already reviewed"})
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		UserID:    *userID,
		ProductID: productID,
		Rating:    body.Rating,
		Comment:   body.Comment,
		Status:    models.ReviewStatusPending,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if _, err := database.ReviewCollection.InsertOne(ctx, review); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create review")
		return
	}

	respond(c, http.StatusCreated, "Review submitted for moderation", review)
}

// GetProductReviews lists approved reviews for a product.
func GetProductReviews(c *gin.Context) {
	productID, ok := parseObjectID(c, c.Param("id"), "productId")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ReviewCollection.Find(ctx,
		bson.M{"productId": productID, "status": models.ReviewStatusApproved})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}

	respond(c, http.StatusOK, "Fetch reviews success", reviews)
}

func GetReviewsAdmin(c *gin.Context) {
	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.ReviewCollection.Find(ctx, filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch reviews")
		return
	}

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode reviews")
		return
	}

	respond(c, http.StatusOK, "Fetch reviews success", reviews)
}

// ModerateReview moves a pending review to approved or rejected.
func ModerateReview(c *gin.Context) {
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
	if body.Status != models.ReviewStatusApproved && body.Status != models.ReviewStatusRejected {
		fail(c, &services.ValidationError{Field: "status", Message: "must be approved or rejected"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Review
	err := database.ReviewCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Review not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to moderate review")
		return
	}

	respond(c, http.StatusOK, "Review "+updated.Status, updated)
}
