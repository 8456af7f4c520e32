package controllers

import (
	"ecommerce/database"
	"ecommerce/models"
	"ecommerce/repository"
	"ecommerce/services"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	cartService   *services.CartService
	cartProducts  services.ProductStore
	couponService *services.CouponService

	userLifecycle     *services.Lifecycle[models.User]
	productLifecycle  *services.Lifecycle[models.Product]
	orderLifecycle    *services.Lifecycle[models.Order]
	categoryLifecycle *services.Lifecycle[models.Category]
)

// Init wires the domain services to their Mongo stores. Must run after
// database.InitCollections.
func Init() {
	cartProducts = repository.NewMongoProductStore(database.ProductCollection)
	cartService = services.NewCartService(
		repository.NewMongoCartStore(database.CartCollection),
		cartProducts,
	)
	couponService = services.NewCouponService(
		repository.NewMongoCouponStore(database.CouponCollection),
	)

	userLifecycle = services.NewLifecycle[models.User]("user",
		repository.NewMongoLifecycleStore[models.User](database.UserCollection))
	// Restored products come back unpublished and must be republished
	// explicitly before buyers see them again.
	productLifecycle = services.NewLifecycle[models.Product]("product",
		repository.NewMongoLifecycleStore[models.Product](database.ProductCollection).
			WithRestoreSet(bson.M{"published": false}))
	orderLifecycle = services.NewLifecycle[models.Order]("order",
		repository.NewMongoLifecycleStore[models.Order](database.OrderCollection))
	categoryLifecycle = services.NewLifecycle[models.Category]("category",
		repository.NewMongoLifecycleStore[models.Category](database.CategoryCollection))
}
