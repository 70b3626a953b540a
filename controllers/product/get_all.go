package productcontroller

import (
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

const defaultProductPageSize = 12

func productPageSize() int {
	if v, err := strconv.Atoi(os.Getenv("PRODUCT_PAGE_SIZE")); err == nil && v > 0 {
		return v
	}
	return defaultProductPageSize
}

// GET /products — filtered, sorted, paginated catalog listing.
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		search := c.Query("q")
		category := c.Query("category")
		minPriceStr := c.Query("min_price")
		maxPriceStr := c.Query("max_price")
		ratingStr := c.Query("rating")
		sort := c.DefaultQuery("sort", "newest")
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}

		query := db.Model(&models.Product{})

		if search != "" {
			likePattern := "%" + search + "%"
			query = query.Where("name ILIKE ? OR description ILIKE ?", likePattern, likePattern)
		}
		if category != "" {
			query = query.Where("category = ?", category)
		}
		if minPriceStr != "" {
			if _, err := strconv.ParseFloat(minPriceStr, 64); err != nil {
				c.JSON(http.StatusBadRequest, models.Fail("Invalid min_price"))
				return
			}
			query = query.Where("price >= ?", minPriceStr)
		}
		if maxPriceStr != "" {
			if _, err := strconv.ParseFloat(maxPriceStr, 64); err != nil {
				c.JSON(http.StatusBadRequest, models.Fail("Invalid max_price"))
				return
			}
			query = query.Where("price <= ?", maxPriceStr)
		}
		if ratingStr != "" {
			if _, err := strconv.ParseFloat(ratingStr, 64); err != nil {
				c.JSON(http.StatusBadRequest, models.Fail("Invalid rating"))
				return
			}
			query = query.Where("rating >= ?", ratingStr)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch products"))
			return
		}

		switch strings.ToLower(sort) {
		case "lowest":
			query = query.Order("price ASC")
		case "highest":
			query = query.Order("price DESC")
		case "rating":
			query = query.Order("rating DESC")
		default:
			query = query.Order("created_at DESC")
		}

		pageSize := productPageSize()
		var products []models.Product
		if err := query.Limit(pageSize).Offset((page - 1) * pageSize).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch products"))
			return
		}

		c.JSON(http.StatusOK, models.Result{Success: true, Data: gin.H{
			"products":    products,
			"total_pages": int(math.Ceil(float64(count) / float64(pageSize))),
		}})
	}
}

// GET /products/categories — distinct categories with product counts.
func GetCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []struct {
			Category string `json:"category"`
			Count    int64  `json:"count"`
		}
		err := db.Model(&models.Product{}).
			Select("category, COUNT(*) AS count").
			Group("category").
			Order("category").
			Scan(&categories).Error
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch categories"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: categories})
	}
}
