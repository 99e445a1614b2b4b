package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/merchsys/storefront/internal/pkg/auth"
)

const (
	// CustomerIDContextKey is the gin context key for an authenticated customer.
	CustomerIDContextKey = "customerID"
	// SessionIDContextKey is the gin context key for an anonymous session.
	SessionIDContextKey = "sessionID"
	sessionHeader       = "X-Session-ID"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	ParseToken(token string) (pkgAuth.PrincipalKind, int64, error)
}

// ShopperIdentity resolves the mutually exclusive cart identity: a customer
// token when present, otherwise an anonymous session header. Requests with
// neither cannot own a cart and are rejected.
func ShopperIdentity(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := extractBearer(c); token != "" {
			kind, id, err := parser.ParseToken(token)
			if err != nil || kind != pkgAuth.PrincipalCustomer {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Set(CustomerIDContextKey, id)
			c.Next()
			return
		}

		if session := c.GetHeader(sessionHeader); session != "" {
			c.Set(SessionIDContextKey, session)
			c.Next()
			return
		}

		c.AbortWithStatus(http.StatusUnauthorized)
	}
}

// AdminRequired permits only back-office tokens.
func AdminRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractBearer(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		kind, _, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if kind != pkgAuth.PrincipalAdmin {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
