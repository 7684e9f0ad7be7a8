package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	cfg, err := LoadConfig()
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingSecret)
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ALGORITHM", "")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("MASTER_ADMIN_EMAIL", "")
	t.Setenv("MASTER_ADMIN_PASS", "")
	t.Setenv("MAIL_USERNAME", "desk@example.com")
	t.Setenv("MAIL_FROM", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 1440, cfg.TokenTTLMinutes)
	assert.Equal(t, "admin@skydesk.com", cfg.MasterAdminEmail)
	assert.Equal(t, "SkyControl@2026", cfg.MasterAdminPass)
	assert.Equal(t, "desk@example.com", cfg.MailFrom)
	assert.Equal(t, "smtp.gmail.com", cfg.MailServer)
	assert.Equal(t, "587", cfg.MailPort)
	assert.Equal(t, []string{
		"http://localhost:5173",
		"https://skydesk360.onrender.com",
		"https://skydesk360.vercel.app",
	}, cfg.AllowedOrigins)
}

func TestLoadConfigMySQLFallbackDSN(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_USER", "desk")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "skydesk")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "desk:pw@tcp(db:3306)/skydesk?parseTime=true", cfg.DatabaseURL)
}

func TestLoadConfigMergesOrigins(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("FRONTEND_URL", "https://desks.example.com")
	t.Setenv("CORS_ORIGINS", " https://a.example.com ,http://localhost:5173,,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"http://localhost:5173",
		"https://skydesk360.onrender.com",
		"https://desks.example.com",
		"https://a.example.com",
	}, cfg.AllowedOrigins)
}

func TestLoadConfigKeepsMasterPasswordIntact(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	pass := strings.Repeat("é", 50) // 100 bytes, a byte cut at 72 would split a rune
	t.Setenv("MASTER_ADMIN_PASS", pass)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, pass, cfg.MasterAdminPass)
}
