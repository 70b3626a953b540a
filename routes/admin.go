package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Baysah/prostore/controllers/order"
	productControllers "github.com/Baysah/prostore/controllers/product"
	userControllers "github.com/Baysah/prostore/controllers/user"
	"github.com/Baysah/prostore/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a JWT with
// the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken, middleware.RequireAdmin)
	{
		// Overview dashboard
		adminGroup.GET("/overview", orderControllers.GetOrderSummaryHandler(db))

		// Product management
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(db))
			productAdmin.PUT("/:id", productControllers.UpdateProduct(db))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(db))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(db))
		}
		adminGroup.POST("/upload", productControllers.UploadImage())

		// Order management
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.PUT("/:orderID/pay", orderControllers.MarkPaidCODHandler(db))
			orderAdmin.PUT("/:orderID/deliver", orderControllers.MarkDeliveredHandler(db))
			orderAdmin.DELETE("/:orderID", orderControllers.DeleteOrderHandler(db))
		}

		// User management
		userAdmin := adminGroup.Group("/users")
		{
			userAdmin.GET("", userControllers.GetAllUsers(db))
			userAdmin.PUT("/:userID", userControllers.AdminUpdateUser(db))
			userAdmin.DELETE("/:userID", userControllers.DeleteUser(db))
		}
	}
}
