package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	paypalControllers "github.com/Baysah/prostore/controllers/paypal"
)

// SetupRoutes is the single entry-point that wires up all route groups.
// gateway may be nil when PayPal is not configured; the payment routes are
// skipped in that case.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gateway paypalControllers.Gateway) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Catalog + cart (guests allowed)
	SetupStorefrontRoutes(r, db)

	// Signed-in user routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Order pipeline
	SetupOrderRoutes(r, db)

	// PayPal payment routes
	if gateway != nil {
		SetupPayPalRoutes(r, db, gateway)
	}

	// Admin back-office (JWT + admin role)
	SetupAdminRoutes(r, db)
}
