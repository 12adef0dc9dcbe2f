package middlewares

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Vishnukant2275/easyorderin/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token (or ?token= for websockets) and,
// when roles are given, requires one of them.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			tokenStr = strings.TrimPrefix(h, "Bearer ")
		} else if t := c.Query("token"); t != "" {
			tokenStr = t
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "missing or invalid token"})
			return
		}

		claims, err := utils.ParseToken(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid token"})
			return
		}

		c.Set("userId", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("restaurantId", claims.RestaurantID)
		c.Set("claims", claims)

		if len(requiredRoles) > 0 {
			allowed := false
			for _, r := range requiredRoles {
				if claims.Role == r {
					allowed = true
					break
				}
			}
			if !allowed {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
				return
			}
		}

		c.Next()
	}
}

// RestaurantScope keeps staff sessions inside their own restaurant (:rid).
// Customer sessions are not restaurant-bound and pass through.
func RestaurantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		if utils.CurrentRole(c) == utils.RoleCustomer {
			c.Next()
			return
		}
		rid, err := strconv.ParseUint(c.Param("rid"), 10, 64)
		if err != nil || uint(rid) != utils.CurrentRestaurantID(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"ok": false, "error": "forbidden"})
			return
		}
		c.Next()
	}
}
