package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
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

		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}
		if !priceFormat.MatchString(input.Price) {
			c.JSON(http.StatusBadRequest, models.Fail("Price must have exactly 2 decimal places"))
			return
		}

		product.Name = input.Name
		product.Slug = input.Slug
		product.Category = input.Category
		product.Brand = input.Brand
		product.Description = input.Description
		product.Images = input.Images
		product.Price = input.Price
		product.Stock = input.Stock
		product.IsFeatured = input.IsFeatured
		product.Banner = input.Banner

		if err := db.Save(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, models.Fail("A product with this slug already exists"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update product"))
			return
		}

		c.JSON(http.StatusOK, models.Result{Success: true, Message: "Product updated successfully", Data: product})
	}
}
