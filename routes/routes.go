package routes

import (
	"ecommerce/controllers"
	"ecommerce/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {

	api := r.Group("/api")
	{
		api.POST("/register", controllers.Register)
		api.POST("/login", controllers.Login)
		api.POST("/logout", controllers.Logout)

		api.GET("/products", controllers.GetProductsPublic)
		api.GET("/products/:id", controllers.GetProductPublic)
		api.GET("/products/:id/reviews", controllers.GetProductReviews)
		api.GET("/categories", controllers.GetCategoriesPublic)

		// Cart routes work for both authenticated users and anonymous
		// sessions carrying the session-id header.
		cart := api.Group("/cart")
		cart.Use(middleware.OptionalAuthMiddleware())
		{
			cart.GET("", controllers.GetCart)
			cart.POST("/items", controllers.AddCartItem)
			cart.PATCH("/items", controllers.UpdateCartItem)
			cart.DELETE("/items", controllers.RemoveCartItem)
			cart.DELETE("", controllers.ClearCart)
		}

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			admin := protected.Group("/admin")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.GET("/users", controllers.GetUsersAdmin)
				admin.GET("/users/deleted", controllers.GetDeletedUsers)
				admin.PUT("/users/:id", controllers.UpdateUser)
				admin.DELETE("/users/:id", controllers.SoftDeleteUser)
				admin.POST("/users/:id/restore", controllers.RestoreUser)
				admin.DELETE("/users/:id/permanent", controllers.HardDeleteUser)

				admin.POST("/products", controllers.CreateProduct)
				admin.GET("/products", controllers.GetProductsAdmin)
				admin.GET("/products/deleted", controllers.GetDeletedProducts)
				admin.PUT("/products/:id", controllers.UpdateProduct)
				admin.PATCH("/products/:id/publish", controllers.PublishProduct)
				admin.DELETE("/products/:id", controllers.SoftDeleteProduct)
				admin.POST("/products/:id/restore", controllers.RestoreProduct)
				admin.DELETE("/products/:id/permanent", controllers.HardDeleteProduct)

				admin.POST("/categories", controllers.CreateCategory)
				admin.GET("/categories", controllers.GetCategoriesAdmin)
				admin.GET("/categories/deleted", controllers.GetDeletedCategories)
				admin.PUT("/categories/:id", controllers.UpdateCategory)
				admin.DELETE("/categories/:id", controllers.SoftDeleteCategory)
				admin.POST("/categories/:id/restore", controllers.RestoreCategory)
				admin.DELETE("/categories/:id/permanent", controllers.HardDeleteCategory)

				admin.GET("/orders", controllers.GetOrdersAdmin)
				admin.GET("/orders/deleted", controllers.GetDeletedOrders)
				admin.GET("/orders/:id", controllers.GetOrderByIDAdmin)
				admin.PUT("/orders/:id/status", controllers.UpdateOrderStatus)
				admin.DELETE("/orders/:id", controllers.SoftDeleteOrder)
				admin.POST("/orders/:id/restore", controllers.RestoreOrder)
				admin.DELETE("/orders/:id/permanent", controllers.HardDeleteOrder)

				admin.POST("/coupons", controllers.CreateCoupon)
				admin.GET("/coupons", controllers.GetCoupons)
				admin.PUT("/coupons/:id/status", controllers.UpdateCouponStatus)
				admin.DELETE("/coupons/:id", controllers.DeleteCoupon)

				admin.GET("/reviews", controllers.GetReviewsAdmin)
				admin.PUT("/reviews/:id/moderate", controllers.ModerateReview)
			}

			user := protected.Group("/user")
			{
				user.POST("/checkout", controllers.Checkout)
				user.GET("/orders", controllers.GetOrders)
				user.PUT("/orders/:id/cancel", controllers.CancelOrder)

				user.POST("/products/:id/reviews", controllers.CreateReview)
				user.POST("/coupons/apply", controllers.ApplyCoupon)
			}
		}
	}
}
