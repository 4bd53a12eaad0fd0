package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RBACMiddleware lets the request through only for the listed roles.
func RBACMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		if !slices.Contains(allowedRoles, ac.RoleName) {
			log.Ctx(c.Request.Context()).Debug().
				Str("user_id", ac.UserID).
				Str("role", ac.RoleName).
				Strs("allowed", allowedRoles).
				Str("path", c.FullPath()).
				Msg("role not permitted")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}

		c.Next()
	}
}

// RequireWriteAccess rejects readonly (student) sessions.
func RequireWriteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := GetAccessContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access context missing"})
			return
		}
		if !ac.CanWrite() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "write access denied"})
			return
		}
		c.Next()
	}
}
