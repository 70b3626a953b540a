package auth

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	cartControllers "github.com/Baysah/prostore/controllers/cart"
	"github.com/Baysah/prostore/middleware"
	"github.com/Baysah/prostore/models"
)

const tokenLifetime = 7 * 24 * time.Hour

func issueToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(tokenLifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

type SignUpInput struct {
	Name            string `json:"name" binding:"required,min=3"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required,min=8"`
}

type SignInInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/signup
func SignUpHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignUpInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}
		if input.Password != input.ConfirmPassword {
			c.JSON(http.StatusBadRequest, models.Fail("Passwords do not match"))
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to register user"))
			return
		}

		user := models.User{
			ID:       uuid.NewString(),
			Name:     input.Name,
			Email:    input.Email,
			Password: string(hashed),
			Role:     models.RoleUser,
		}
		if err := db.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, models.Fail("Email already exists"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to register user"))
			return
		}

		adoptSessionCart(c, db, user.ID)

		token, err := issueToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Token generation failed"))
			return
		}

		c.JSON(http.StatusCreated, models.Result{
			Success: true,
			Message: "User registered successfully",
			Data:    gin.H{"token": token, "user": user},
		})
	}
}

// POST /auth/signin
func SignInHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input SignInInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		var user models.User
		if err := db.First(&user, "email = ?", input.Email).Error; err != nil {
			c.JSON(http.StatusUnauthorized, models.Fail("Invalid email or password"))
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, models.Fail("Invalid email or password"))
			return
		}

		adoptSessionCart(c, db, user.ID)

		token, err := issueToken(user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Token generation failed"))
			return
		}

		c.JSON(http.StatusOK, models.Result{
			Success: true,
			Message: "Signed in successfully",
			Data:    gin.H{"token": token, "user": user},
		})
	}
}

// adoptSessionCart hands the anonymous cart over to the user signing in.
// A merge failure never blocks authentication.
func adoptSessionCart(c *gin.Context, db *gorm.DB, userID string) {
	sessionCartID, err := c.Cookie(middleware.SessionCartCookie)
	if err != nil {
		return
	}
	_ = cartControllers.MergeSessionCart(db, userID, sessionCartID)
}
