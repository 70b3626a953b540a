package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	userControllers "github.com/Baysah/prostore/controllers/user"
	"github.com/Baysah/prostore/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("", userControllers.GetProfile(db))
		userGroup.PUT("", userControllers.UpdateProfile(db))
		userGroup.PUT("/address", userControllers.UpdateAddress(db))
		userGroup.PUT("/payment-method", userControllers.UpdatePaymentMethod(db))
	}
}
