package api

import (
	"net/http"                    // HTTP status codes
	"skydesk/internal/credential" // Token verification
	"skydesk/internal/metrics"    // Prometheus
	"skydesk/internal/middleware" // Auth and CORS middleware
	"skydesk/internal/service"    // Services

	"github.com/gin-gonic/gin" // Gin web framework
)

// Deps are the collaborators the routes need
type Deps struct {
	Auth           *service.AuthService
	Bookings       *service.BookingService
	Users          middleware.UserLookup
	Tokens         *credential.TokenManager
	AllowedOrigins []string
}

// NewRouter builds the gin engine with every route and middleware mounted
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), metrics.Middleware(), middleware.CORSMiddleware(d.AllowedOrigins))

	// Set trusted proxies for Gin
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Auth routes
	r.POST("/signup", SignupHandler(d.Auth))
	r.POST("/login", LoginHandler(d.Auth))

	// Booking routes (protected by JWT)
	authed := r.Group("/", middleware.JWTAuthMiddleware(d.Tokens))
	authed.POST("/book-seat", BookSeatHandler(d.Bookings))
	authed.GET("/my-bookings/:user_id", MyBookingsHandler(d.Bookings))
	authed.DELETE("/cancel-booking/:booking_id", CancelBookingHandler(d.Bookings))
	authed.GET("/occupied-units", OccupiedUnitsHandler(d.Bookings))

	// Admin routes (protected, admin only)
	admin := r.Group("/admin", middleware.JWTAuthMiddleware(d.Tokens), middleware.AdminOnlyMiddleware(d.Users))
	admin.POST("/create-sub-admin", CreateSubAdminHandler(d.Auth))
	admin.GET("/all-bookings", ListAllBookingsHandler(d.Bookings))

	return r
}
