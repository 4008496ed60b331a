package middleware

import (
	"net/http"
	"strings"

	"github.com/edoctorat/backend/utils"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware gates a route group behind a bearer access token. Refresh
// and verification tokens are rejected here by their type discriminator.
func AuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.ParseOfType(tokenStr, utils.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("username", claims.Username)
		c.Set("groups", claims.Roles)
		c.Next()
	}
}

// RequireGroup allows only accounts carrying the named group.
func RequireGroup(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		groupsVal, ok := c.Get("groups")
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		groups, _ := groupsVal.([]string)
		for _, g := range groups {
			if strings.EqualFold(g, name) {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
}
