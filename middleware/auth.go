package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Osmankaankorkmaz/Tonica/helpers"
)

// ClaimsKey is the gin context key holding the authenticated user's claims.
const ClaimsKey = "claims"

// Authenticate verifies the Bearer token and stores its claims in the context.
func Authenticate(tokens *helpers.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Unauthorized"})
			return
		}

		claims, err := tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "message": "Invalid or expired token"})
			return
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// UserID returns the authenticated user's id, or "" if the request carries no
// valid claims.
func UserID(c *gin.Context) string {
	claimsVal, ok := c.Get(ClaimsKey)
	if !ok {
		return ""
	}
	claims, ok := claimsVal.(*helpers.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}
