package productcontroller

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

var priceFormat = regexp.MustCompile(`^\d+\.\d{2}$`)

type ProductInput struct {
	Name        string   `json:"name" binding:"required,min=3"`
	Slug        string   `json:"slug" binding:"required,min=3"`
	Category    string   `json:"category" binding:"required"`
	Brand       string   `json:"brand" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Images      []string `json:"images" binding:"required,min=1"`
	Price       string   `json:"price" binding:"required"`
	Stock       int      `json:"stock" binding:"min=0"`
	IsFeatured  bool     `json:"is_featured"`
	Banner      *string  `json:"banner"`
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}
		if !priceFormat.MatchString(input.Price) {
			c.JSON(http.StatusBadRequest, models.Fail("Price must have exactly 2 decimal places"))
			return
		}

		product := models.Product{
			ID:          uuid.NewString(),
			Name:        input.Name,
			Slug:        input.Slug,
			Category:    input.Category,
			Brand:       input.Brand,
			Description: input.Description,
			Images:      input.Images,
			Price:       input.Price,
			Stock:       input.Stock,
			Rating:      "0.00",
			IsFeatured:  input.IsFeatured,
			Banner:      input.Banner,
		}
		if err := db.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, models.Fail("A product with this slug already exists"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to create product"))
			return
		}

		c.JSON(http.StatusCreated, models.Result{Success: true, Message: "Product created successfully", Data: product})
	}
}

// POST /admin/upload — stores an image and returns its stable URL.
func UploadImage() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("image file is required"))
			return
		}

		ext := strings.ToLower(filepath.Ext(file.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			c.JSON(http.StatusBadRequest, models.Fail("Unsupported image type"))
			return
		}

		uploadsDir := os.Getenv("UPLOADS_DIR")
		if uploadsDir == "" {
			uploadsDir = "uploads"
		}
		filename := uuid.NewString() + ext
		if err := c.SaveUploadedFile(file, filepath.Join(uploadsDir, filename)); err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to store image"))
			return
		}

		c.JSON(http.StatusOK, models.Result{Success: true, Data: gin.H{"url": "/uploads/" + filename}})
	}
}
