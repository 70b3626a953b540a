package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

const latestProductsLimit = 4

// GET /products/latest
func GetLatestProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Limit(latestProductsLimit).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch products"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: products})
	}
}

// GET /products/slug/:slug
func GetProductBySlug(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "slug = ?", c.Param("slug")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Product not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch product"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: product})
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Product not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch product"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: product})
	}
}
