// file: service/token_service_test.go

package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newTestTokenService() *TokenService {
	return NewTokenService("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestTokenService_AccessTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService()

	signed, err := tokens.IssueAccessToken(42, "ann@x.com", "Ann")
	assert.NoError(t, err)
	assert.NotEmpty(t, signed)

	claims, err := tokens.VerifyAccessToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "ann@x.com", claims.Email)
	assert.Equal(t, "Ann", claims.Name)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestTokenService_RefreshTokenRoundTrip(t *testing.T) {
	tokens := newTestTokenService()
	tokenID := uuid.NewString()

	signed, err := tokens.IssueRefreshToken(42, tokenID)
	assert.NoError(t, err)

	claims, err := tokens.VerifyRefreshToken(signed)
	assert.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, tokenID, claims.TokenID)
}

// An access token must never verify under the refresh secret and vice versa.
func TestTokenService_TokenKindIsolation(t *testing.T) {
	tokens := newTestTokenService()

	access, err := tokens.IssueAccessToken(1, "ann@x.com", "Ann")
	assert.NoError(t, err)
	refresh, err := tokens.IssueRefreshToken(1, uuid.NewString())
	assert.NoError(t, err)

	_, err = tokens.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = tokens.VerifyAccessToken(refresh)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenService_ExpiredToken(t *testing.T) {
	expired := NewTokenService("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := expired.IssueAccessToken(1, "ann@x.com", "Ann")
	assert.NoError(t, err)
	refresh, err := expired.IssueRefreshToken(1, uuid.NewString())
	assert.NoError(t, err)

	_, err = expired.VerifyAccessToken(access)
	assert.ErrorIs(t, err, ErrTokenExpired)

	_, err = expired.VerifyRefreshToken(refresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenService_TamperedToken(t *testing.T) {
	tokens := newTestTokenService()

	signed, err := tokens.IssueAccessToken(1, "ann@x.com", "Ann")
	assert.NoError(t, err)

	// Corrupt the payload segment; the signature no longer matches.
	parts := strings.Split(signed, ".")
	assert.Len(t, parts, 3)
	tampered := parts[0] + "." + "x" + parts[1] + "." + parts[2]

	_, err = tokens.VerifyAccessToken(tampered)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokenService_GarbageToken(t *testing.T) {
	tokens := newTestTokenService()

	_, err := tokens.VerifyAccessToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)

	_, err = tokens.VerifyRefreshToken("")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}
