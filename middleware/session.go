package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionCartCookie names the anonymous cart-session cookie. The token is
// generated once per browser and scopes a guest's cart until sign-in.
const SessionCartCookie = "session_cart_id"

const sessionCartMaxAge = 60 * 60 * 24 * 30 // 30 days

// CartSession makes sure every request carries a cart-session token.
func CartSession(c *gin.Context) {
	if _, err := c.Cookie(SessionCartCookie); err == http.ErrNoCookie {
		token := uuid.NewString()
		c.SetCookie(SessionCartCookie, token, sessionCartMaxAge, "/", "", false, true)
		// Make the token visible to handlers within this same request.
		c.Request.AddCookie(&http.Cookie{Name: SessionCartCookie, Value: token})
	}
	c.Next()
}
