package middleware

import (
	"context"                     // Lookup scoping
	"errors"                      // Error matching
	"net/http"                    // HTTP status codes
	"skydesk/internal/domain"     // Domain models
	"skydesk/internal/repository" // Not found sentinel
	"skydesk/internal/service"    // Requester type

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserLookup finds users by id
type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// AdminOnlyMiddleware checks the caller's admin flag in the database on each
// request, so a revoked or forged admin claim is not enough.
func AdminOnlyMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, exists := RequesterFrom(c)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		user, err := users.FindByID(c.Request.Context(), requester.UserID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			logrus.WithFields(logrus.Fields{
				"user_id": requester.UserID,
				"error":   err.Error(),
			}).Error("Admin lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}
		if user == nil || !user.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Admin access required"})
			return
		}
		c.Set(RequesterKey, service.Requester{UserID: user.ID, IsAdmin: true})
		c.Next()
	}
}
