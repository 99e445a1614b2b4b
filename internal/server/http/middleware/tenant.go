package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// TenantIDContextKey is the gin context key for the resolved tenant.
	TenantIDContextKey = "tenantID"
	tenantHeader       = "X-Store-ID"
)

// TenantRequired resolves the store instance a request operates on. Every
// entity is tenant scoped; a request without a valid tenant is rejected.
func TenantRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(tenantHeader)
		if raw == "" {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		tenantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || tenantID <= 0 {
			c.AbortWithStatus(http.StatusBadRequest)
			return
		}
		c.Set(TenantIDContextKey, tenantID)
		c.Next()
	}
}
