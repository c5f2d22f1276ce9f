package repository

import (
	"context"
	"time"

	"spartanfitness/api/internal/domain"
)

// Errors returned by every repository implementation.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// Methods taking a `query string` apply a case-insensitive substring match on
// name and description. An empty query matches everything.

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []domain.UserID) ([]domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// GetByCoachIDs returns the accounts owning the given coach profiles.
	GetByCoachIDs(ctx context.Context, coachIDs []domain.CoachID) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id domain.ExerciseID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	GetByIDs(ctx context.Context, ids []domain.ExerciseID, query string) ([]domain.Exercise, error)
	GetBySearchQuery(ctx context.Context, query string) ([]domain.Exercise, error)
	// GetSubscribers returns the users who saved the exercise.
	GetSubscribers(ctx context.Context, id domain.ExerciseID) ([]domain.User, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	// Delete removes the exercise, drops it from saved sets and removes workout line items referencing it.
	Delete(ctx context.Context, id domain.ExerciseID) error
}

// MuscleGroupRepository defines the interface for interacting with muscle group data.
type MuscleGroupRepository interface {
	Create(ctx context.Context, group *domain.MuscleGroup) error
	GetByID(ctx context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error)
	GetByName(ctx context.Context, name string) (*domain.MuscleGroup, error)
	GetByIDs(ctx context.Context, ids []domain.MuscleGroupID, query string) ([]domain.MuscleGroup, error)
	GetBySearchQuery(ctx context.Context, query string) ([]domain.MuscleGroup, error)
	Update(ctx context.Context, group *domain.MuscleGroup) error
	// Delete removes the group with its muscles and drops every removed id from exercises, workouts and saved sets.
	Delete(ctx context.Context, id domain.MuscleGroupID) error
}

// MuscleRepository defines the interface for interacting with muscle data.
type MuscleRepository interface {
	Create(ctx context.Context, muscle *domain.Muscle) error
	GetByID(ctx context.Context, id domain.MuscleID) (*domain.Muscle, error)
	GetByName(ctx context.Context, name string) (*domain.Muscle, error)
	GetByIDs(ctx context.Context, ids []domain.MuscleID, query string) ([]domain.Muscle, error)
	GetBySearchQuery(ctx context.Context, query string) ([]domain.Muscle, error)
	GetByMuscleGroupID(ctx context.Context, groupID domain.MuscleGroupID) ([]domain.Muscle, error)
	Update(ctx context.Context, muscle *domain.Muscle) error
	// Delete removes the muscle and drops it from its group, exercises and saved sets.
	Delete(ctx context.Context, id domain.MuscleID) error
}

// WorkoutRepository defines the interface for interacting with workout data.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) error
	GetByID(ctx context.Context, id domain.WorkoutID) (*domain.Workout, error)
	GetByIDs(ctx context.Context, ids []domain.WorkoutID, query string) ([]domain.Workout, error)
	GetBySearchQuery(ctx context.Context, query string) ([]domain.Workout, error)
	GetByCoachID(ctx context.Context, coachID domain.CoachID) ([]domain.Workout, error)
	// GetByExerciseID returns the workouts with at least one line item for the exercise.
	GetByExerciseID(ctx context.Context, exerciseID domain.ExerciseID) ([]domain.Workout, error)
	// GetSubscribers returns the users who saved any of the workouts.
	GetSubscribers(ctx context.Context, ids []domain.WorkoutID) ([]domain.User, error)
	Update(ctx context.Context, workout *domain.Workout) error
	// Delete removes the workout and drops it from saved sets.
	Delete(ctx context.Context, id domain.WorkoutID) error
}

// CoachRepository defines the interface for interacting with coach profiles.
type CoachRepository interface {
	Create(ctx context.Context, coach *domain.Coach) error
	GetByID(ctx context.Context, id domain.CoachID) (*domain.Coach, error)
	GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Coach, error)
	Update(ctx context.Context, coach *domain.Coach) error
}

// AdministratorRepository defines the interface for interacting with administrator profiles.
type AdministratorRepository interface {
	Create(ctx context.Context, admin *domain.Administrator) error
	GetByUserID(ctx context.Context, userID domain.UserID) (*domain.Administrator, error)
}

// CoachApplicationRepository defines the interface for interacting with coach applications.
type CoachApplicationRepository interface {
	Create(ctx context.Context, application *domain.CoachApplication) error
	GetByID(ctx context.Context, id domain.CoachApplicationID) (*domain.CoachApplication, error)
	// GetPendingByUserID returns ErrNotFound when the user has no open application.
	GetPendingByUserID(ctx context.Context, userID domain.UserID) (*domain.CoachApplication, error)
	GetByStatus(ctx context.Context, status domain.CoachApplicationStatus) ([]domain.CoachApplication, error)
	Update(ctx context.Context, application *domain.CoachApplication) error
}

// PasswordResetTokenRepository defines the interface for interacting with password reset tokens.
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *domain.PasswordResetToken) error
	GetByValue(ctx context.Context, value string) (*domain.PasswordResetToken, error)
	// InvalidateForUser marks every open token of the user as invalidated.
	InvalidateForUser(ctx context.Context, userID domain.UserID) error
	Update(ctx context.Context, token *domain.PasswordResetToken) error
	// DeleteStale removes tokens that are used, invalidated or expired before now.
	DeleteStale(ctx context.Context, now time.Time) (int64, error)
}

// UploadRepository defines the interface for interacting with upload metadata.
type UploadRepository interface {
	Create(ctx context.Context, upload *domain.Upload) error
	GetByID(ctx context.Context, id domain.UploadID) (*domain.Upload, error)
	GetByOwnerID(ctx context.Context, ownerID domain.UserID) ([]domain.Upload, error)
	Delete(ctx context.Context, id domain.UploadID) error
}
