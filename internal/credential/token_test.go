package credential

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", 0)
	require.NoError(t, err)

	token, err := m.Issue("alice@x.com", true, 7, "Alice")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", claims.Email())
	assert.True(t, claims.Admin)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Alice", claims.Name)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", time.Minute)
	require.NoError(t, err)
	issued := time.Now()
	m.now = func() time.Time { return issued }

	token, err := m.Issue("alice@x.com", false, 1, "Alice")
	require.NoError(t, err)

	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	m, err := NewTokenManager("secret", "HS256", 0)
	require.NoError(t, err)
	token, err := m.Issue("alice@x.com", false, 1, "Alice")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	_, err = m.Verify(parts[0] + "." + parts[1] + "." + string(sig))
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err := NewTokenManager("other-secret", "HS256", 0)
	require.NoError(t, err)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	hs512, err := NewTokenManager("secret", "HS512", 0)
	require.NoError(t, err)
	token, err := hs512.Issue("alice@x.com", false, 1, "Alice")
	require.NoError(t, err)

	hs256, err := NewTokenManager("secret", "HS256", 0)
	require.NoError(t, err)
	_, err = hs256.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewTokenManagerValidation(t *testing.T) {
	_, err := NewTokenManager("", "HS256", 0)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokenManager("secret", "RS256", 0)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", "none", 0)
	assert.Error(t, err)

	m, err := NewTokenManager("secret", "", 0)
	require.NoError(t, err)
	assert.Equal(t, "HS256", m.method.Alg())
}
