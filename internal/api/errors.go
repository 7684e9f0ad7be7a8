package api

import (
	"errors"                   // Error matching
	"net/http"                 // HTTP status codes
	"skydesk/internal/service" // Service errors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// respondError maps a service error to a status and a {"detail": ...} body.
// Unknown errors are logged and reported as a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Email already registered"})
	case errors.Is(err, service.ErrSeatTaken):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Seat already booked"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Conflict"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": "Not allowed"})
	default:
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"error":  err.Error(),
		}).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
	}
}

// badRequest rejects malformed input before it reaches a service
func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}
