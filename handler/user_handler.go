package handler

import (
	"net/http"

	"go-nutrition-api/common"
	"go-nutrition-api/model"
	"go-nutrition-api/service"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetProfile godoc
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/me [get]
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid user ID in token", nil)
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		return mapUserError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
	return nil
}

// UpdateProfile godoc
// @Summary      Update profile fields
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        profile body model.UpdateProfileRequest true "Fields to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/me [put]
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid user ID in token", nil)
	}

	user, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		return mapUserError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
	return nil
}

// UpdateGoals godoc
// @Summary      Update fitness goals
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        goals body model.UpdateGoalsRequest true "Goals to update"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/me/goals [put]
func (h *UserHandler) UpdateGoals(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.UpdateGoalsRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid user ID in token", nil)
	}

	user, err := h.service.UpdateGoals(r.Context(), userID, req)
	if err != nil {
		return mapUserError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
	return nil
}

// CompleteOnboarding godoc
// @Summary      Mark onboarding as completed
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  common.AppError
// @Router       /api/v1/users/me/onboarding [post]
func (h *UserHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, common.CodeInvalidToken, "Invalid user ID in token", nil)
	}

	user, err := h.service.CompleteOnboarding(r.Context(), userID)
	if err != nil {
		return mapUserError(err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": user})
	return nil
}

func mapUserError(err error) *common.AppError {
	switch err {
	case service.ErrUserNotFound:
		// Same status as an invalid token; account existence is not leaked.
		return common.NewAppError(http.StatusUnauthorized, common.CodeUserNotFound, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, common.CodeInternalError, "Could not process request", err)
	}
}
