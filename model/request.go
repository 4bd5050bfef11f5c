// file: model/request.go

package model

// RegisterRequest defines the payload for creating a new user.
// It includes validation tags to ensure data integrity at the entry point.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries the refresh token presented in the request body.
// The client is responsible for secure storage; no cookie is involved.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// UpdateProfileRequest defines the payload for updating basic profile fields.
// Pointer fields distinguish "not provided" from zero values.
type UpdateProfileRequest struct {
	Name       *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Age        *int     `json:"age" validate:"omitempty,gte=13,lte=120"`
	Weight     *float64 `json:"weight" validate:"omitempty,gt=0"`
	WeightUnit *string  `json:"weight_unit" validate:"omitempty,oneof=kg lb"`
	Height     *float64 `json:"height" validate:"omitempty,gt=0"`
	HeightUnit *string  `json:"height_unit" validate:"omitempty,oneof=cm in"`
	Gender     *string  `json:"gender" validate:"omitempty,oneof=male female other"`
}

// UpdateGoalsRequest defines the payload for updating fitness goals.
type UpdateGoalsRequest struct {
	FitnessGoal *string `json:"fitness_goal" validate:"omitempty,oneof=lose_weight maintain gain_muscle"`
	GymActivity *string `json:"gym_activity" validate:"omitempty,oneof=sedentary light moderate intense"`
	DietFocus   *string `json:"diet_focus" validate:"omitempty,oneof=balanced low_carb high_protein vegetarian vegan"`
}
