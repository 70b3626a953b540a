package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	orderControllers "github.com/Baysah/prostore/controllers/order"
	"github.com/Baysah/prostore/middleware"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Checkout: cart -> order
		orders.POST("", orderControllers.CreateOrderHandler(db))

		// The caller's own order history
		orders.GET("/mine", orderControllers.GetMyOrdersHandler(db))

		// Single order (owner or admin)
		orders.GET("/:orderID", orderControllers.GetOrderHandler(db))
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", middleware.ValidateToken, middleware.RequireAdmin, orderControllers.OrderWebSocketHandler)
}
