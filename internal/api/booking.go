package api

import (
	"net/http"                    // HTTP status codes
	"skydesk/internal/middleware" // Authenticated caller
	"skydesk/internal/service"    // Booking service
	"strconv"                     // Path parameter parsing

	"github.com/gin-gonic/gin" // Gin web framework
)

// BookSeatRequest is the body of POST /book-seat
type BookSeatRequest struct {
	UserID   uint     `json:"user_id" binding:"required"`     // Owner of the booking
	UnitID   string   `json:"unit_id" binding:"required"`     // Desk or seat id
	UnitType string   `json:"unit_type" binding:"required"`   // Category label
	Price    *float64 `json:"price" binding:"required,gte=0"` // Pointer so 0 is accepted
}

// BookSeatHandler reserves a unit for the user named in the body, which must be the caller unless the caller is an admin
func BookSeatHandler(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := requesterOf(c) // Get caller from context
		if !ok {
			// If no caller is set, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		var req BookSeatRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request: user_id, unit_id, unit_type and a non-negative price are required")
			return
		}
		// Only admins may book on behalf of someone else
		if !requester.CanActFor(req.UserID) {
			respondError(c, service.ErrForbidden)
			return
		}
		// Reserve the unit; an occupied one comes back as a conflict
		if _, err := bookings.BookSeat(c.Request.Context(), req.UserID, req.UnitID, req.UnitType, *req.Price); err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success"}) // Respond with success status
	}
}

// MyBookingsHandler lists the bookings of the user in the path
func MyBookingsHandler(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := requesterOf(c) // Get caller from context
		if !ok {
			// If no caller is set, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		userID, ok := uintParam(c, "user_id") // Parse user id from path
		if !ok {
			return // uintParam already answered 400
		}
		// Users only see their own bookings
		if !requester.CanActFor(userID) {
			respondError(c, service.ErrForbidden)
			return
		}
		views, err := bookings.ListUserBookings(c.Request.Context(), userID) // Fetch the user's bookings
		if err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, views) // Respond with bookings
	}
}

// CancelBookingHandler deletes a booking owned by the caller, or any booking for admins
func CancelBookingHandler(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		requester, ok := requesterOf(c) // Get caller from context
		if !ok {
			// If no caller is set, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized"})
			return
		}
		bookingID, ok := uintParam(c, "booking_id") // Parse booking id from path
		if !ok {
			return // uintParam already answered 400
		}
		// Ownership is checked by the service
		if err := bookings.CancelBooking(c.Request.Context(), requester, bookingID); err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cancelled"}) // Respond with success message
	}
}

// OccupiedUnitsHandler returns the ids of booked units for the seat map
func OccupiedUnitsHandler(bookings *service.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		units, err := bookings.OccupiedUnits(c.Request.Context()) // Fetch booked unit ids
		if err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, units) // Respond with unit ids
	}
}

func requesterOf(c *gin.Context) (service.Requester, bool) {
	return middleware.RequesterFrom(c)
}

// uintParam parses a positive id path parameter, answering 400 itself when it is not one
func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 0) // Parse as unsigned integer
	if err != nil || v == 0 {
		badRequest(c, "Invalid "+name) // Reject non-numeric and zero ids
		return 0, false
	}
	return uint(v), true // Return parsed id
}
