package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name" binding:"required"`
	Description  string             `bson:"description" json:"description" binding:"required"`
	Price        float64            `bson:"price" json:"price" binding:"required"`
	Stock        int                `bson:"stock" json:"stock" binding:"required"`
	CategoryID   primitive.ObjectID `bson:"categoryId,omitempty" json:"categoryId,omitempty"`
	Images       []string           `bson:"images" json:"images"`
	PrimaryImage string             `bson:"primaryImage" json:"primaryImage"`
	Published    bool               `bson:"published" json:"published"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
	DeletedAt    *time.Time         `bson:"deletedAt,omitempty" json:"deletedAt,omitempty"`
}

// Purchasable reports whether buyers may add or check out the product.
// Soft-deleted and unpublished products are invisible to the storefront.
func (p Product) Purchasable() bool {
	return p.DeletedAt == nil && p.Published
}
