package model

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the payload of a short-lived access token. Verified by
// signature and expiry only; there is no server-side revocation list.
type AccessClaims struct {
	UserID int    `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. TokenID correlates the
// signed claims with the stored refresh_tokens row checked on every refresh.
type RefreshClaims struct {
	UserID  int    `json:"user_id"`
	TokenID string `json:"token_id"`
	jwt.RegisteredClaims
}
