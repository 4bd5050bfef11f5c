package service

import (
	"context"
	"database/sql"

	"go-nutrition-api/logger"
	"go-nutrition-api/model"
	"go-nutrition-api/repository"
)

// UserService handles profile, goal and onboarding operations.
type UserService struct {
	userRepo repository.IUserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.IUserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetProfile returns the public projection of the user.
func (s *UserService) GetProfile(ctx context.Context, userID int) (*model.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile applies the provided profile fields and returns the updated
// projection. Absent fields keep their current values.
func (s *UserService) UpdateProfile(ctx context.Context, userID int, req model.UpdateProfileRequest) (*model.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Weight != nil {
		user.Weight = *req.Weight
	}
	if req.WeightUnit != nil {
		user.WeightUnit = *req.WeightUnit
	}
	if req.Height != nil {
		user.Height = *req.Height
	}
	if req.HeightUnit != nil {
		user.HeightUnit = *req.HeightUnit
	}
	if req.Gender != nil {
		user.Gender = *req.Gender
	}

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("User profile updated")
	return user.Public(), nil
}

// UpdateGoals applies the provided fitness goal fields.
func (s *UserService) UpdateGoals(ctx context.Context, userID int, req model.UpdateGoalsRequest) (*model.PublicUser, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.FitnessGoal != nil {
		user.FitnessGoal = *req.FitnessGoal
	}
	if req.GymActivity != nil {
		user.GymActivity = *req.GymActivity
	}
	if req.DietFocus != nil {
		user.DietFocus = *req.DietFocus
	}

	if err := s.userRepo.UpdateGoals(ctx, user); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("User goals updated")
	return user.Public(), nil
}

// CompleteOnboarding marks the onboarding wizard as finished for the user.
func (s *UserService) CompleteOnboarding(ctx context.Context, userID int) (*model.PublicUser, error) {
	if err := s.userRepo.CompleteOnboarding(ctx, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logger.Log.WithField("user_id", userID).Info("User onboarding completed")
	return user.Public(), nil
}
