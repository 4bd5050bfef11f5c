package model

import (
	"database/sql"
	"time"
)

// User represents one registered account. PasswordHash is nullable because
// social-login accounts carry no local password.
type User struct {
	ID                    int            `json:"id"`
	Name                  string         `json:"name"`
	Email                 string         `json:"email"`
	PasswordHash          sql.NullString `json:"-"`
	Plan                  string         `json:"plan"`
	Age                   int            `json:"age"`
	Weight                float64        `json:"weight"`
	WeightUnit            string         `json:"weight_unit"`
	Height                float64        `json:"height"`
	HeightUnit            string         `json:"height_unit"`
	Gender                string         `json:"gender"`
	FitnessGoal           string         `json:"fitness_goal"`
	GymActivity           string         `json:"gym_activity"`
	DietFocus             string         `json:"diet_focus"`
	IsOnboardingCompleted bool           `json:"is_onboarding_completed"`
	CreatedAt             time.Time      `json:"created_at"`
	UpdatedAt             time.Time      `json:"updated_at"`
}

// PublicUser is the subset of User fields safe to return to a client.
// The password hash never appears here.
type PublicUser struct {
	ID                    int       `json:"id"`
	Name                  string    `json:"name"`
	Email                 string    `json:"email"`
	Plan                  string    `json:"plan"`
	Age                   int       `json:"age"`
	Weight                float64   `json:"weight"`
	WeightUnit            string    `json:"weight_unit"`
	Height                float64   `json:"height"`
	HeightUnit            string    `json:"height_unit"`
	Gender                string    `json:"gender"`
	FitnessGoal           string    `json:"fitness_goal"`
	GymActivity           string    `json:"gym_activity"`
	DietFocus             string    `json:"diet_focus"`
	IsOnboardingCompleted bool      `json:"is_onboarding_completed"`
	CreatedAt             time.Time `json:"created_at"`
}

// Public returns the client-safe projection of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		Plan:                  u.Plan,
		Age:                   u.Age,
		Weight:                u.Weight,
		WeightUnit:            u.WeightUnit,
		Height:                u.Height,
		HeightUnit:            u.HeightUnit,
		Gender:                u.Gender,
		FitnessGoal:           u.FitnessGoal,
		GymActivity:           u.GymActivity,
		DietFocus:             u.DietFocus,
		IsOnboardingCompleted: u.IsOnboardingCompleted,
		CreatedAt:             u.CreatedAt,
	}
}
