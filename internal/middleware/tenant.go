package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireTenant is the tenant isolation gate: any request reaching a
// tenant-scoped route without a resolved tenant identity fails here, before
// any storage access. The tenant ID handlers use always comes from the
// authenticated claims, never from the request payload.
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Identity(c)
		if claims == nil || claims.TenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "tenant context missing"})
			return
		}
		c.Next()
	}
}
