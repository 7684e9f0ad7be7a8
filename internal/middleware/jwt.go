package middleware

import (
	"net/http"                    // HTTP status codes
	"skydesk/internal/credential" // Token verification
	"skydesk/internal/service"    // Requester type
	"strings"                     // String manipulation

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	ClaimsKey    = "claims"
	RequesterKey = "requester"
)

// JWTAuthMiddleware validates bearer tokens and stores the caller in the context
func JWTAuthMiddleware(tokens *credential.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Missing or invalid Authorization header"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string
		claims, err := tokens.Verify(tokenStr)                // Verify signature and expiry
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid or expired token"})
			return
		}
		c.Set(ClaimsKey, claims)
		c.Set(RequesterKey, service.Requester{UserID: claims.UserID, IsAdmin: claims.Admin})
		c.Next() // Proceed to the next handler
	}
}

// RequesterFrom returns the caller stored by JWTAuthMiddleware
func RequesterFrom(c *gin.Context) (service.Requester, bool) {
	v, ok := c.Get(RequesterKey)
	if !ok {
		return service.Requester{}, false
	}
	r, ok := v.(service.Requester)
	return r, ok
}
