package config

import (
	"errors"  // Sentinel errors
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For splitting origin lists

	"github.com/joho/godotenv" // For loading .env files
)

// ErrMissingSecret is returned when no token signing secret is configured
var ErrMissingSecret = errors.New("config: SECRET_KEY is not set")

// Default origins the frontend is served from
var defaultOrigins = []string{"http://localhost:5173", "https://skydesk360.onrender.com"}

// Config holds the application configuration. It is built once at startup and
// passed by value into the components that need it.
type Config struct {
	AppPort string // Application port
	IsProd  bool   // Is production environment

	DBDriver    string // mysql, postgres or sqlite
	DatabaseURL string // Driver specific DSN

	JWTSecret       string // Token signing secret
	JWTAlgorithm    string // HMAC signing algorithm name
	TokenTTLMinutes int    // Access token lifetime
	BcryptCost      int    // bcrypt cost factor, 0 means library default

	MailUsername string // SMTP login
	MailPassword string // SMTP password
	MailFrom     string // Sender address
	MailServer   string // SMTP host
	MailPort     string // SMTP port

	AllowedOrigins []string // CORS origins

	MasterAdminEmail string // Bootstrap admin email
	MasterAdminPass  string // Bootstrap admin password

	RedisAddr string // Redis server address, empty disables caching
	RedisPass string // Redis password
	RedisDB   int    // Redis database number

	NotifyWorkers int // Number of email workers
}

// LoadConfig loads configuration from the environment, reading a .env file first if present
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present
	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "8000"),
		IsProd:           os.Getenv("IS_PROD") == "true",
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("SECRET_KEY"),
		JWTAlgorithm:     getEnv("ALGORITHM", "HS256"),
		TokenTTLMinutes:  getEnvInt("TOKEN_TTL_MINUTES", 1440),
		BcryptCost:       getEnvInt("BCRYPT_COST", 0),
		MailUsername:     os.Getenv("MAIL_USERNAME"),
		MailPassword:     os.Getenv("MAIL_PASSWORD"),
		MailServer:       getEnv("MAIL_SERVER", "smtp.gmail.com"),
		MailPort:         getEnv("MAIL_PORT", "587"),
		MasterAdminEmail: getEnv("MASTER_ADMIN_EMAIL", "admin@skydesk.com"),
		MasterAdminPass:  getEnv("MASTER_ADMIN_PASS", "SkyControl@2026"), // Hasher applies the 72 byte bcrypt limit
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		RedisPass:        os.Getenv("REDIS_PASS"),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		NotifyWorkers:    getEnvInt("NOTIFY_WORKERS", 2),
	}
	cfg.MailFrom = getEnv("MAIL_FROM", cfg.MailUsername)
	cfg.AllowedOrigins = origins(getEnv("FRONTEND_URL", "https://skydesk360.vercel.app"), os.Getenv("CORS_ORIGINS"))

	// Fall back to the discrete DB_* variables for MySQL
	if cfg.DatabaseURL == "" && cfg.DBDriver == "mysql" {
		cfg.DatabaseURL = os.Getenv("DB_USER") + ":" + os.Getenv("DB_PASSWORD") +
			"@tcp(" + os.Getenv("DB_HOST") + ":" + os.Getenv("DB_PORT") + ")/" + os.Getenv("DB_NAME") + "?parseTime=true"
	}

	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret // The service must refuse to start without a secret
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

// origins merges the fixed origins, the frontend URL and any extra comma separated ones
func origins(frontend, extra string) []string {
	out := append([]string{}, defaultOrigins...)
	seen := map[string]bool{}
	for _, o := range out {
		seen[o] = true
	}
	for _, o := range append([]string{frontend}, strings.Split(extra, ",")...) {
		o = strings.TrimSpace(o)
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
