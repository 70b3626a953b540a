package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/Baysah/prostore/controllers/cart"
	productControllers "github.com/Baysah/prostore/controllers/product"
	"github.com/Baysah/prostore/middleware"
)

// SetupStorefrontRoutes registers the public catalog and the cart. The cart
// works for guests through the cart-session cookie; a JWT, when present,
// scopes the cart to the user instead.
func SetupStorefrontRoutes(r *gin.Engine, db *gorm.DB) {
	products := r.Group("/products")
	{
		products.GET("", productControllers.GetProducts(db))
		products.GET("/latest", productControllers.GetLatestProducts(db))
		products.GET("/categories", productControllers.GetCategories(db))
		products.GET("/slug/:slug", productControllers.GetProductBySlug(db))
		products.GET("/:id", productControllers.GetProductByID(db))
	}

	cart := r.Group("/cart")
	cart.Use(middleware.OptionalToken)
	{
		cart.GET("", cartControllers.GetCartHandler(db))
		cart.POST("", cartControllers.AddItemHandler(db))
		cart.DELETE("/:product_id", cartControllers.RemoveItemHandler(db))
	}
}
