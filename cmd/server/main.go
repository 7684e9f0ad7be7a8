package main

import (
	"context"                     // Startup and shutdown deadlines
	"errors"                      // Error matching
	"net/http"                    // HTTP server
	"os/signal"                   // Graceful shutdown
	"skydesk/internal/api"        // Routes and handlers
	"skydesk/internal/cache"      // Listing cache
	"skydesk/internal/config"     // Configuration
	"skydesk/internal/credential" // Passwords and tokens
	"skydesk/internal/db"         // Database bootstrap
	"skydesk/internal/notify"     // Outbound email
	"skydesk/internal/repository" // Persistence gateway
	"skydesk/internal/service"    // Business rules
	"syscall"                     // Signals
	"time"                        // Timeouts

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the server
func main() {
	cfg, err := config.LoadConfig() // Load configuration
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err) // Refuse to start without a signing secret
	}

	// Setup logger
	if cfg.IsProd {
		logrus.SetFormatter(&logrus.JSONFormatter{})
		gin.SetMode(gin.ReleaseMode)
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	tokens, err := credential.NewTokenManager(cfg.JWTSecret, cfg.JWTAlgorithm, time.Duration(cfg.TokenTTLMinutes)*time.Minute)
	if err != nil {
		logrus.Fatalf("invalid token settings: %v", err)
	}

	// Connect to the database and make sure the schema and unique indexes exist
	conn, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	// Redis is optional; listings are served straight from the database without it
	var listings *cache.BookingCache
	if cfg.RedisAddr != "" {
		listings = cache.New(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		}), cache.DefaultTTL)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := listings.Ping(pingCtx)
		cancel()
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	dispatcher := notify.NewDispatcher(notify.NewSMTPSender(notify.SMTPConfig{
		Host:     cfg.MailServer,
		Port:     cfg.MailPort,
		Username: cfg.MailUsername,
		Password: cfg.MailPassword,
		From:     cfg.MailFrom,
	}), cfg.NotifyWorkers, 0)

	users := repository.NewUserRepository(conn)
	bookings := repository.NewBookingRepository(conn)
	authService := service.NewAuthService(users, credential.NewHasher(cfg.BcryptCost), tokens, dispatcher,
		service.MasterAdmin{Email: cfg.MasterAdminEmail, Password: cfg.MasterAdminPass})
	bookingService := service.NewBookingService(bookings, users, dispatcher, listings)

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = authService.EnsureMasterAdmin(bootCtx)
	cancel()
	if err != nil {
		logrus.Fatalf("failed to ensure master admin: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Auth:           authService,
		Bookings:       bookingService,
		Users:          users,
		Tokens:         tokens,
		AllowedOrigins: cfg.AllowedOrigins,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logrus.Info("Server running on " + cfg.AppPort) // Log server start
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("HTTP shutdown: %v", err)
	}

	mailCtx, cancelMail := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelMail()
	if err := dispatcher.Shutdown(mailCtx); err != nil {
		logrus.Warnf("pending emails dropped: %v", err)
	}
}
