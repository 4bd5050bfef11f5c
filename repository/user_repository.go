package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"go-nutrition-api/logger"
	"go-nutrition-api/model"
)

// ErrEmailTaken is returned when an insert collides with the unique index on
// users.email. Two concurrent registrations can both pass the existence check
// and race on the constraint; the loser must surface as a duplicate, not a 500.
var ErrEmailTaken = errors.New("email is already taken")

// IUserRepository defines the contract for user database operations.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	UpdateProfile(ctx context.Context, user *model.User) error
	UpdateGoals(ctx context.Context, user *model.User) error
	CompleteOnboarding(ctx context.Context, userID int) error
}

// UserRepository implements IUserRepository on PostgreSQL.
type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, name, email, password_hash, plan, age, weight, weight_unit,
		height, height_unit, gender, fitness_goal, gym_activity, diet_focus,
		is_onboarding_completed, created_at, updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Plan,
		&user.Age, &user.Weight, &user.WeightUnit, &user.Height, &user.HeightUnit,
		&user.Gender, &user.FitnessGoal, &user.GymActivity, &user.DietFocus,
		&user.IsOnboardingCompleted, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new user row. A unique-constraint violation on the
// email column is translated to ErrEmailTaken.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, plan, weight_unit, height_unit, is_onboarding_completed, created_at, updated_at`
	err := r.DB.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.Plan, &user.WeightUnit, &user.HeightUnit,
			&user.IsOnboardingCompleted, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrEmailTaken
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

// GetUserByEmail retrieves a user by exact email match.
func (r *UserRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("email", email).Error("Failed to execute get user by email query")
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by primary key.
func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", id).Error("Failed to execute get user by id query")
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile persists the basic profile fields of the given user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user profile")

	query := `UPDATE users
		SET name = $1, age = $2, weight = $3, weight_unit = $4,
			height = $5, height_unit = $6, gender = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.Name, user.Age, user.Weight, user.WeightUnit,
		user.Height, user.HeightUnit, user.Gender, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute update profile query")
		}
		return err
	}
	return nil
}

// UpdateGoals persists the fitness goal fields of the given user.
func (r *UserRepository) UpdateGoals(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":      user.ID,
		"fitness_goal": user.FitnessGoal,
	})
	log.Info("Executing query to update user goals")

	query := `UPDATE users
		SET fitness_goal = $1, gym_activity = $2, diet_focus = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at`
	err := r.DB.QueryRowContext(ctx, query,
		user.FitnessGoal, user.GymActivity, user.DietFocus, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute update goals query")
		}
		return err
	}
	return nil
}

// CompleteOnboarding flips the onboarding flag for the user.
func (r *UserRepository) CompleteOnboarding(ctx context.Context, userID int) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to complete onboarding")

	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_onboarding_completed = TRUE, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute complete onboarding query")
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
