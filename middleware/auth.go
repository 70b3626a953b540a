package middleware

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// ValidateToken requires a valid JWT and stores user_id and role in the context.
func ValidateToken(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header is missing"})
		c.Abort()
		return
	}

	claims, err := parseToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		c.Abort()
		return
	}

	c.Set("user_id", claims["user_id"])
	c.Set("role", claims["role"])
	c.Next()
}

// OptionalToken stores user_id/role when a valid JWT is present but lets
// anonymous requests through. Cart routes use it so guests can shop.
func OptionalToken(c *gin.Context) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		c.Next()
		return
	}

	if claims, err := parseToken(tokenString); err == nil {
		c.Set("user_id", claims["user_id"])
		c.Set("role", claims["role"])
	}
	c.Next()
}

// RequireAdmin gates the admin back-office. Must run after ValidateToken.
func RequireAdmin(c *gin.Context) {
	role, _ := c.Get("role")
	if role != "admin" {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized as admin"})
		c.Abort()
		return
	}
	c.Next()
}
