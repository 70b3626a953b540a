package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

// GET /admin/products/export-excel
func ExportProductsToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("created_at DESC").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch products"))
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Products")
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to create Excel sheet"))
			return
		}

		headers := []string{
			"ID", "Name", "Slug", "Category", "Brand",
			"Price", "Stock", "Rating", "NumReviews", "IsFeatured",
			"Images", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, p := range products {
			row := sheet.AddRow()
			row.AddCell().SetValue(p.ID)
			row.AddCell().SetValue(p.Name)
			row.AddCell().SetValue(p.Slug)
			row.AddCell().SetValue(p.Category)
			row.AddCell().SetValue(p.Brand)
			row.AddCell().SetValue(p.Price)
			row.AddCell().SetValue(p.Stock)
			row.AddCell().SetValue(p.Rating)
			row.AddCell().SetValue(p.NumReviews)
			row.AddCell().SetValue(p.IsFeatured)
			row.AddCell().SetValue(strings.Join(p.Images, ","))
			row.AddCell().SetValue(p.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", `attachment; filename="products.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to write Excel file"))
			return
		}
	}
}
