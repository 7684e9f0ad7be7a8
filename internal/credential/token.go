package credential

import (
	"errors" // Error wrapping
	"fmt"    // Error formatting
	"time"   // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

var (
	// ErrInvalidToken is returned for tokens that are malformed, tampered with or expired
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMissingSecret is returned when a TokenManager is built without a secret
	ErrMissingSecret = errors.New("token signing secret is required")
)

// DefaultTTL is the lifetime of an access token when none is configured
const DefaultTTL = 1440 * time.Minute

// Claims embedded in every access token
type Claims struct {
	Admin                bool   `json:"admin"`   // Admin flag
	UserID               uint   `json:"user_id"` // User ID
	Name                 string `json:"name"`    // Display name
	jwt.RegisteredClaims        // sub carries the email
}

// Email returns the subject claim
func (c *Claims) Email() string {
	return c.Subject
}

// TokenManager issues and verifies HMAC signed access tokens
type TokenManager struct {
	secret []byte
	method *jwt.SigningMethodHMAC
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a TokenManager. algorithm must name an HMAC method (HS256, HS384, HS512).
func NewTokenManager(secret, algorithm string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	if algorithm == "" {
		algorithm = jwt.SigningMethodHS256.Alg()
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenManager{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// Issue signs a token for the given identity, expiring after the configured TTL
func (m *TokenManager) Issue(email string, admin bool, userID uint, name string) (string, error) {
	now := m.now()
	claims := Claims{
		Admin:  admin,
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
}

// Verify parses tokenStr and checks its signature, algorithm and expiry
func (m *TokenManager) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{m.method.Alg()}), jwt.WithExpirationRequired(), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
