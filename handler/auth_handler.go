package handler

import (
	"encoding/json"
	"net/http"

	"go-nutrition-api/common"
	"go-nutrition-api/model"
	"go-nutrition-api/service"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(s *service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

// authResponse is the success envelope for register and login.
type authResponse struct {
	Success      bool              `json:"success"`
	User         *model.PublicUser `json:"user"`
	AccessToken  string            `json:"accessToken"`
	RefreshToken string            `json:"refreshToken"`
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account and returns the public profile with a token pair.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        register body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  handler.authResponse
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      409  {object}  common.AppError "Email already registered"
// @Router       /api/v1/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, pair, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch err {
		case service.ErrUserExists:
			return common.NewAppError(http.StatusConflict, common.CodeUserExists, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not register user", err)
		}
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Success:      true,
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and opens a new session.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        login body model.LoginRequest true "Login payload"
// @Success      200  {object}  handler.authResponse
// @Failure      400  {object}  common.AppError "Invalid payload"
// @Failure      401  {object}  common.AppError "Invalid credentials"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	user, pair, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch err {
		case service.ErrInvalidCredentials:
			return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidCreds, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not log in", err)
		}
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success:      true,
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
	return nil
}

// Refresh godoc
// @Summary      Rotate a refresh token
// @Description  Exchanges a valid refresh token for a new access/refresh pair. The presented token is invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        refresh body model.RefreshRequest true "Refresh payload"
// @Success      200  {object}  model.TokenPair
// @Failure      401  {object}  common.AppError "Invalid, expired or rotated token"
// @Router       /api/v1/auth/refresh-token [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case service.ErrInvalidOrExpiredToken:
			return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, err.Error(), nil)
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusUnauthorized, common.CodeUserNotFound, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not refresh session", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
	return nil
}

// Logout godoc
// @Summary      Log out of all sessions
// @Description  Deletes every refresh token of the authenticated user. Idempotent.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError "Missing or invalid access token"
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid user ID in token", nil)
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not log out", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out of all sessions",
	})
	return nil
}

// Verify godoc
// @Summary      Verify an access token
// @Description  Returns the public profile of the token's owner. Trusts the signature only.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError "Invalid token or unknown subject"
// @Router       /api/v1/auth/verify [get]
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) *common.AppError {
	token, appErr := BearerToken(r)
	if appErr != nil {
		return appErr
	}

	user, err := h.service.VerifyToken(r.Context(), token)
	if err != nil {
		switch err {
		case service.ErrInvalidOrExpiredToken:
			return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, err.Error(), nil)
		case service.ErrUserNotFound:
			return common.NewAppError(http.StatusUnauthorized, common.CodeUserNotFound, err.Error(), nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not verify token", err)
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
