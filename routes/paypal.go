package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paypalControllers "github.com/Baysah/prostore/controllers/paypal"
	"github.com/Baysah/prostore/middleware"
)

func SetupPayPalRoutes(r *gin.Engine, db *gorm.DB, gateway paypalControllers.Gateway) {
	paypal := r.Group("/orders/:orderID/paypal")
	paypal.Use(middleware.ValidateToken)
	{
		paypal.POST("", paypalControllers.CreatePayPalOrderHandler(db, gateway))
		paypal.POST("/capture", paypalControllers.CapturePayPalOrderHandler(db, gateway))
	}
}
