package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, "id = ?", c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete product"))
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, models.Fail("Product not found"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("Product deleted successfully"))
	}
}
