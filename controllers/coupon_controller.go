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

func CreateCoupon(c *gin.Context) {
	var body struct {
		Code            string    `json:"code" binding:"required"`
		Type            string    `json:"type" binding:"required"`
		Value           float64   `json:"value" binding:"required"`
		MinimumPurchase float64   `json:"minimumPurchase"`
		StartDate       time.Time `json:"startDate" binding:"required"`
		ExpirationDate  time.Time `json:"expirationDate" binding:"required"`
		MaxUsage        *int      `json:"maxUsage"`
		MaxUsagePerUser int       `json:"maxUsagePerUser"`
		Status          string    `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	status := body.Status
	if status == "" {
		status = models.CouponStatusActive
	}

	coupon := models.Coupon{
		ID:              primitive.NewObjectID(),
		Code:            services.NormalizeCouponCode(body.Code),
		Type:            body.Type,
		Value:           body.Value,
		MinimumPurchase: body.MinimumPurchase,
		StartDate:       body.StartDate,
		ExpirationDate:  body.ExpirationDate,
		MaxUsage:        body.MaxUsage,
		MaxUsagePerUser: body.MaxUsagePerUser,
		Status:          status,
		UsedBy:          []models.CouponUsage{},
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := services.ValidateCouponDefinition(&coupon); err != nil {
		fail(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var existing models.Coupon
	err := database.CouponCollection.FindOne(ctx, bson.M{"code": coupon.Code}).Decode(&existing)
	if err == nil {
		fail(c, &services.ConflictError{Message: "coupon code already exists"})
		return
	}

	if _, err := database.CouponCollection.InsertOne(ctx, coupon); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create coupon")
		return
	}

	respond(c, http.StatusCreated, "Coupon created", coupon)
}

func GetCoupons(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cursor, err := database.CouponCollection.Find(ctx, bson.M{})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch coupons")
		return
	}

	coupons := []models.Coupon{}
	if err := cursor.All(ctx, &coupons); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to decode coupons")
		return
	}

	respond(c, http.StatusOK, "Fetch coupons success", coupons)
}

func UpdateCouponStatus(c *gin.Context) {
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
	if body.Status != models.CouponStatusActive && body.Status != models.CouponStatusInactive {
		fail(c, &services.ValidationError{Field: "status", Message: "must be active or inactive"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Coupon
	err := database.CouponCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": body.Status, "updatedAt": time.Now()}},
		opts).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update coupon")
		return
	}

	respond(c, http.StatusOK, "Coupon status updated", updated)
}

func DeleteCoupon(c *gin.Context) {
	id, ok := parseObjectID(c, c.Param("id"), "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := database.CouponCollection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete coupon")
		return
	}
	if result.DeletedCount == 0 {
		respondError(c, http.StatusNotFound, "Coupon not found")
		return
	}

	respond(c, http.StatusOK, "Coupon deleted", gin.H{"id": id.Hex()})
}

// ApplyCoupon previews the discount a coupon would give the current user
// on a subtotal, without redeeming anything.
func ApplyCoupon(c *gin.Context) {
	userID := currentUserID(c)
	if userID == nil {
		respondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var body struct {
		Code     string  `json:"code" binding:"required"`
		Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	coupon, err := couponService.Validate(ctx, body.Code, *userID, body.Subtotal)
	if err != nil {
		fail(c, err)
		return
	}

	discount := couponService.Discount(coupon, body.Subtotal)
	respond(c, http.StatusOK, "Coupon applied", gin.H{
		"code":     coupon.Code,
		"type":     coupon.Type,
		"discount": discount,
		"total":    body.Subtotal - discount,
	})
}
