package userControllers

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/models"
)

const defaultUserPageSize = 10

func userPageSize() int {
	if v, err := strconv.Atoi(os.Getenv("USER_PAGE_SIZE")); err == nil && v > 0 {
		return v
	}
	return defaultUserPageSize
}

type UpdateProfileInput struct {
	Name string `json:"name" binding:"required,min=3"`
}

type UpdatePaymentMethodInput struct {
	Type string `json:"type" binding:"required"`
}

type AdminUpdateUserInput struct {
	Name string `json:"name" binding:"required,min=3"`
	Role string `json:"role" binding:"required,oneof=user admin"`
}

// GET /user
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusNotFound, models.Fail("User not found"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: user})
	}
}

// PUT /user
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var input UpdateProfileInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("name", input.Name).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update profile"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("Profile updated successfully"))
	}
}

// PUT /user/address — stores the shipping address used as the checkout snapshot.
func UpdateAddress(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var address struct {
			FullName      string `json:"full_name" binding:"required"`
			StreetAddress string `json:"street_address" binding:"required"`
			City          string `json:"city" binding:"required"`
			PostalCode    string `json:"postal_code" binding:"required"`
			Country       string `json:"country" binding:"required"`
		}
		if err := c.ShouldBindJSON(&address); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		updates := map[string]interface{}{
			"address_full_name":      address.FullName,
			"address_street_address": address.StreetAddress,
			"address_city":           address.City,
			"address_postal_code":    address.PostalCode,
			"address_country":        address.Country,
		}
		if err := db.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update address"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("Address updated successfully"))
	}
}

// PUT /user/payment-method
func UpdatePaymentMethod(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")

		var input UpdatePaymentMethodInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		switch input.Type {
		case models.PaymentMethodPayPal, models.PaymentMethodCreditCard, models.PaymentMethodCashOnDelivery:
		default:
			c.JSON(http.StatusBadRequest, models.Fail("Invalid payment method"))
			return
		}

		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("payment_method", input.Type).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update payment method"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("Payment method updated successfully"))
	}
}

// GET /admin/users?page=1
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		if page < 1 {
			page = 1
		}
		pageSize := userPageSize()

		var count int64
		if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch users"))
			return
		}

		var users []models.User
		if err := db.Order("created_at DESC").
			Limit(pageSize).
			Offset((page - 1) * pageSize).
			Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch users"))
			return
		}

		c.JSON(http.StatusOK, models.Result{Success: true, Data: gin.H{
			"users":       users,
			"total_pages": int(math.Ceil(float64(count) / float64(pageSize))),
		}})
	}
}

// PUT /admin/users/:userID
func AdminUpdateUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AdminUpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		result := db.Model(&models.User{}).Where("id = ?", c.Param("userID")).
			Updates(map[string]interface{}{"name": input.Name, "role": input.Role})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to update user"))
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, models.Fail("User not found"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("User updated successfully"))
	}
}

// DELETE /admin/users/:userID — cascades to the user's cart and orders.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")

		err := db.Transaction(func(tx *gorm.DB) error {
			var user models.User
			if err := tx.First(&user, "id = ?", userID).Error; err != nil {
				return err
			}
			return tx.Select("Cart", "Orders").Delete(&user).Error
		})
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("User not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete user"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("User deleted successfully"))
	}
}
