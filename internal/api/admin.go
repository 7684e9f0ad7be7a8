package api

import (
	"net/http"                 // HTTP status codes
	"skydesk/internal/service" // Services

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// CreateSubAdminHandler provisions another administrator. Mounted behind the admin gate.
func CreateSubAdminHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request: full_name, a valid email and a password of at least 8 characters are required")
			return
		}
		// Create the admin account and email its credentials
		if err := auth.CreateSubAdmin(c.Request.Context(), req.FullName, req.Email, req.Password); err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		// Log who created the admin
		if requester, ok := requesterOf(c); ok {
			logrus.WithFields(logrus.Fields{
				"created_by": requester.UserID,
				"email":      req.Email,
			}).Info("Sub-admin created")
		}
		c.JSON(http.StatusOK, gin.H{"message": "Sub-admin created"}) // Respond with success message
	}
}

// ListAllBookingsHandler returns every booking. Mounted behind the admin gate.
func ListAllBookingsHandler(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		views, err := bookings.ListAllBookings(c.Request.Context()) // Fetch every booking
		if err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, views) // Respond with bookings
	}
}
