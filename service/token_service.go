// file: service/token_service.go

package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-nutrition-api/model"
)

var (
	// ErrTokenExpired and ErrTokenMalformed are distinguished internally for
	// logging; the session service collapses both into a single client-facing
	// failure.
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed or has an invalid signature")
)

// TokenService signs and verifies the two token kinds. Access and refresh
// tokens use independent secrets; a token of one kind never verifies under
// the other secret.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

// RefreshTTL exposes the configured refresh lifetime so the session service
// can stamp the stored row with the same expiry it signs into the claims.
func (s *TokenService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

// IssueAccessToken signs a short-lived access token carrying the user's
// identity. The token is self-contained; nothing is persisted.
func (s *TokenService) IssueAccessToken(userID int, email, name string) (string, error) {
	now := time.Now().UTC()
	claims := &model.AccessClaims{
		UserID: userID,
		Email:  email,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefreshToken signs a long-lived refresh token. The tokenID correlates
// the claims with the stored refresh_tokens row.
func (s *TokenService) IssueRefreshToken(userID int, tokenID string) (string, error) {
	now := time.Now().UTC()
	claims := &model.RefreshClaims{
		UserID:  userID,
		TokenID: tokenID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// VerifyAccessToken validates signature and expiry of an access token and
// returns its claims.
func (s *TokenService) VerifyAccessToken(tokenString string) (*model.AccessClaims, error) {
	claims := &model.AccessClaims{}
	if err := s.verify(tokenString, claims, s.accessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// VerifyRefreshToken validates signature and expiry of a refresh token and
// returns its claims.
func (s *TokenService) VerifyRefreshToken(tokenString string) (*model.RefreshClaims, error) {
	claims := &model.RefreshClaims{}
	if err := s.verify(tokenString, claims, s.refreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return ErrTokenMalformed
	}
	if !token.Valid {
		return ErrTokenMalformed
	}
	return nil
}
