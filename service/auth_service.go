package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go-nutrition-api/logger"
	"go-nutrition-api/model"
	"go-nutrition-api/repository"
)

var (
	ErrUserExists            = errors.New("a user with this email already exists")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrUserNotFound          = errors.New("user not found")
)

// AuthService orchestrates the session lifecycle: registration, login,
// refresh-token rotation, logout and access-token verification.
type AuthService struct {
	userRepo   repository.IUserRepository
	tokenRepo  repository.ITokenRepository
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new account and issues its first session. The refresh
// token row is persisted before the pair is returned: the caller never holds
// a signed refresh token that has no matching row.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.PublicUser, *model.TokenPair, error) {
	log := logger.Log.WithField("email", req.Email)

	if _, err := s.userRepo.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, nil, ErrUserExists
	} else if err != sql.ErrNoRows {
		return nil, nil, err
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: sql.NullString{String: hash, Valid: true},
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the loser hits the unique index instead.
		if err == repository.ErrEmailTaken {
			return nil, nil, ErrUserExists
		}
		return nil, nil, err
	}

	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	log.WithField("user_id", user.ID).Info("User registered")
	return user.Public(), pair, nil
}

// Login authenticates with email and password and opens a new session. A
// missing user and a wrong password produce the same failure; the client
// learns nothing about which factor was wrong.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.PublicUser, *model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !user.PasswordHash.Valid || !s.CheckPasswordHash(req.Password, user.PasswordHash.String) {
		return nil, nil, ErrInvalidCredentials
	}

	// A brand-new row per login: one session per device, accumulated
	// concurrently.
	pair, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
	}).Info("User logged in")
	return user.Public(), pair, nil
}

// Refresh exchanges a still-valid refresh token for a fresh pair, rotating
// the stored row in place. The presented token becomes unusable immediately;
// there is no grace window.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		// Expired and malformed are distinct only in the logs.
		logger.Log.WithError(err).Info("Refresh token failed verification")
		return nil, ErrInvalidOrExpiredToken
	}

	row, err := s.tokenRepo.GetActive(ctx, claims.TokenID, claims.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	newTokenID := uuid.NewString()
	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	newRefreshToken, err := s.tokens.IssueRefreshToken(user.ID, newTokenID)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(s.tokens.RefreshTTL())
	if err := s.tokenRepo.Rotate(ctx, row.ID, newTokenID, newRefreshToken, expiresAt); err != nil {
		if err == sql.ErrNoRows {
			// Lost a race with a concurrent rotation or logout on the same row.
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return &model.TokenPair{AccessToken: accessToken, RefreshToken: newRefreshToken}, nil
}

// Logout deletes every refresh token row for the user. It is global across
// devices and idempotent: a user with zero sessions logs out successfully.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	if err := s.tokenRepo.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User logged out of all sessions")
	return nil
}

// VerifyToken validates an access token and returns the owner's public
// profile. Only the signature and expiry are checked; a session logged out
// after issuance stays valid here until the access TTL elapses.
func (s *AuthService) VerifyToken(ctx context.Context, accessToken string) (*model.PublicUser, error) {
	claims, err := s.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		logger.Log.WithError(err).Info("Access token failed verification")
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

// CleanupExpiredTokens reclaims refresh token rows whose expiry has elapsed
// and returns how many were deleted. Intended to run on a periodic schedule.
func (s *AuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	count, err := s.tokenRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Log.WithField("deleted", count).Info("Expired refresh tokens cleaned up")
	}
	return count, nil
}

// issueSession signs a fresh access/refresh pair and persists the refresh
// token row. Persistence failure fails the whole operation.
func (s *AuthService) issueSession(ctx context.Context, user *model.User) (*model.TokenPair, error) {
	tokenID := uuid.NewString()

	accessToken, err := s.tokens.IssueAccessToken(user.ID, user.Email, user.Name)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.tokens.IssueRefreshToken(user.ID, tokenID)
	if err != nil {
		return nil, err
	}

	row := &model.RefreshToken{
		TokenID:   tokenID,
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().UTC().Add(s.tokens.RefreshTTL()),
	}
	if err := s.tokenRepo.Create(ctx, row); err != nil {
		return nil, err
	}

	return &model.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
