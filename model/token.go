// file: model/token.go

package model

import "time"

// RefreshToken holds one revocable refresh session row. TokenID is the
// identifier embedded in the signed refresh claims; rotation overwrites
// TokenID, Token and ExpiresAt on the same row, so the previous token string
// becomes unusable immediately.
type RefreshToken struct {
	ID        int       `json:"id"`
	TokenID   string    `json:"token_id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"` // The signed token is not exposed in JSON responses.
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair bundles the two credentials returned by register, login and
// refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
