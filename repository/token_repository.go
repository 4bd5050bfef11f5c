// file: repository/token_repository.go

package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"go-nutrition-api/logger"
	"go-nutrition-api/model"
)

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(ctx context.Context, token *model.RefreshToken) error
	GetActive(ctx context.Context, tokenID string, userID int) (*model.RefreshToken, error)
	Rotate(ctx context.Context, rowID int, newTokenID, newToken string, newExpiresAt time.Time) error
	DeleteByUserID(ctx context.Context, userID int) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// TokenRepository implements ITokenRepository on PostgreSQL.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
func (r *TokenRepository) Create(ctx context.Context, token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"token_id":   token.TokenID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (token_id, token, user_id, expires_at)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, token.TokenID, token.Token, token.UserID, token.ExpiresAt).
		Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetActive retrieves the refresh token row matching the claims' token id and
// user id. Store-side expiry is authoritative: an expired row is never
// returned even if the signed token itself would still verify.
func (r *TokenRepository) GetActive(ctx context.Context, tokenID string, userID int) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, token_id, token, user_id, expires_at, created_at
		FROM refresh_tokens
		WHERE token_id = $1 AND user_id = $2 AND expires_at > NOW()`
	err := r.DB.QueryRowContext(ctx, query, tokenID, userID).
		Scan(&token.ID, &token.TokenID, &token.Token, &token.UserID, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("token_id", tokenID).
				Error("Failed to execute get active refresh token query")
		}
		return nil, err // Return sql.ErrNoRows if rotated, revoked or expired.
	}
	return token, nil
}

// Rotate overwrites the token id, token value and expiry of an existing row.
// The previous token string becomes unusable as soon as this commits.
func (r *TokenRepository) Rotate(ctx context.Context, rowID int, newTokenID, newToken string, newExpiresAt time.Time) error {
	log := logger.Log.WithFields(logrus.Fields{
		"row_id":     rowID,
		"token_id":   newTokenID,
		"expires_at": newExpiresAt,
	})
	log.Info("Executing query to rotate refresh token in place")

	res, err := r.DB.ExecContext(ctx,
		`UPDATE refresh_tokens SET token_id = $1, token = $2, expires_at = $3 WHERE id = $4`,
		newTokenID, newToken, newExpiresAt, rowID)
	if err != nil {
		log.WithError(err).Error("Failed to execute rotate refresh token query")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByUserID deletes all refresh tokens for a specific user.
// Logout is global: every device's session goes at once. Deleting zero rows
// is not an error.
func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	_, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return err
	}
	return nil
}

// DeleteExpired reclaims rows whose expiry has elapsed and returns how many
// were removed.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete expired refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
