package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token and stashes the user id and the
// active organization id in the gin context. The organization id may be empty
// for a freshly registered user with no organization yet.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "missing or invalid token"})
			c.Abort()
			return
		}
		tokenStr := strings.TrimPrefix(h, "Bearer ")

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid claims"})
			c.Abort()
			return
		}

		var userID, orgID string
		if v, ok := claims["userId"].(string); ok {
			userID = v
		}
		if v, ok := claims["activeOrganizationId"].(string); ok {
			orgID = v
		}
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid claims"})
			c.Abort()
			return
		}

		c.Set("userId", userID)
		c.Set("organizationId", orgID)
		c.Next()
	}
}
