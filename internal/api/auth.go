package api

import (
	"net/http"                 // HTTP status codes
	"skydesk/internal/service" // Auth service

	"github.com/gin-gonic/gin" // Gin web framework
)

// SignupRequest is the body of POST /signup and POST /admin/create-sub-admin
type SignupRequest struct {
	FullName string `json:"full_name" binding:"required"`      // Display name
	Email    string `json:"email" binding:"required,email"`    // Login email
	Password string `json:"password" binding:"required,min=8"` // At least 8 characters
}

// LoginRequest is the body of POST /login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"` // Login email
	Password string `json:"password" binding:"required"`    // Plain password
}

// SignupHandler registers a regular user
func SignupHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SignupRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request: full_name, a valid email and a password of at least 8 characters are required")
			return
		}
		// Create the user; a taken email comes back as a conflict
		if err := auth.Signup(c.Request.Context(), req.FullName, req.Email, req.Password); err != nil {
			respondError(c, err) // Map service error to status
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signup successful"}) // Respond with success message
	}
}

// LoginHandler authenticates a user and returns an access token
func LoginHandler(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			badRequest(c, "Invalid request")
			return
		}
		// Check credentials and issue a token
		res, err := auth.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Unknown email and wrong password both map to 401
			return
		}
		c.JSON(http.StatusOK, res) // Respond with token and profile
	}
}
