package cache

import (
	"context"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/repository"
)

const (
	exerciseKeyPrefix    = "exercise:id:"
	workoutKeyPrefix     = "workout:id:"
	muscleKeyPrefix      = "muscle:id:"
	muscleGroupKeyPrefix = "musclegroup:id:"
)

// ExerciseRepository caches single-exercise lookups. Everything else passes through.
type ExerciseRepository struct {
	repository.ExerciseRepository
	cache *Cache
}

func NewExerciseRepository(next repository.ExerciseRepository, cache *Cache) *ExerciseRepository {
	return &ExerciseRepository{ExerciseRepository: next, cache: cache}
}

func (r *ExerciseRepository) GetByID(ctx context.Context, id domain.ExerciseID) (*domain.Exercise, error) {
	return readThrough(ctx, r.cache, exerciseKeyPrefix+id.String(), func() (*domain.Exercise, error) {
		return r.ExerciseRepository.GetByID(ctx, id)
	})
}

func (r *ExerciseRepository) Update(ctx context.Context, exercise *domain.Exercise) error {
	if err := r.ExerciseRepository.Update(ctx, exercise); err != nil {
		return err
	}
	r.cache.invalidate(ctx, exerciseKeyPrefix+exercise.ID.String())
	return nil
}

// Delete also drops cached workouts since the cascade rewrites their line items.
func (r *ExerciseRepository) Delete(ctx context.Context, id domain.ExerciseID) error {
	if err := r.ExerciseRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.invalidate(ctx, exerciseKeyPrefix+id.String())
	r.cache.invalidatePrefix(ctx, workoutKeyPrefix)
	return nil
}

// WorkoutRepository caches single-workout lookups. Everything else passes through.
type WorkoutRepository struct {
	repository.WorkoutRepository
	cache *Cache
}

func NewWorkoutRepository(next repository.WorkoutRepository, cache *Cache) *WorkoutRepository {
	return &WorkoutRepository{WorkoutRepository: next, cache: cache}
}

func (r *WorkoutRepository) GetByID(ctx context.Context, id domain.WorkoutID) (*domain.Workout, error) {
	return readThrough(ctx, r.cache, workoutKeyPrefix+id.String(), func() (*domain.Workout, error) {
		return r.WorkoutRepository.GetByID(ctx, id)
	})
}

func (r *WorkoutRepository) Update(ctx context.Context, workout *domain.Workout) error {
	if err := r.WorkoutRepository.Update(ctx, workout); err != nil {
		return err
	}
	r.cache.invalidate(ctx, workoutKeyPrefix+workout.ID.String())
	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, id domain.WorkoutID) error {
	if err := r.WorkoutRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.invalidate(ctx, workoutKeyPrefix+id.String())
	return nil
}

// MuscleGroupRepository caches single-group lookups.
type MuscleGroupRepository struct {
	repository.MuscleGroupRepository
	cache *Cache
}

func NewMuscleGroupRepository(next repository.MuscleGroupRepository, cache *Cache) *MuscleGroupRepository {
	return &MuscleGroupRepository{MuscleGroupRepository: next, cache: cache}
}

func (r *MuscleGroupRepository) GetByID(ctx context.Context, id domain.MuscleGroupID) (*domain.MuscleGroup, error) {
	return readThrough(ctx, r.cache, muscleGroupKeyPrefix+id.String(), func() (*domain.MuscleGroup, error) {
		return r.MuscleGroupRepository.GetByID(ctx, id)
	})
}

func (r *MuscleGroupRepository) Update(ctx context.Context, group *domain.MuscleGroup) error {
	if err := r.MuscleGroupRepository.Update(ctx, group); err != nil {
		return err
	}
	r.cache.invalidate(ctx, muscleGroupKeyPrefix+group.ID.String())
	return nil
}

// Delete removes the group's muscles and pulls its id out of exercises and
// workouts, so every dependent prefix is dropped.
func (r *MuscleGroupRepository) Delete(ctx context.Context, id domain.MuscleGroupID) error {
	if err := r.MuscleGroupRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.invalidate(ctx, muscleGroupKeyPrefix+id.String())
	r.cache.invalidatePrefix(ctx, muscleKeyPrefix, exerciseKeyPrefix, workoutKeyPrefix)
	return nil
}

// MuscleRepository caches single-muscle lookups.
type MuscleRepository struct {
	repository.MuscleRepository
	cache *Cache
}

func NewMuscleRepository(next repository.MuscleRepository, cache *Cache) *MuscleRepository {
	return &MuscleRepository{MuscleRepository: next, cache: cache}
}

func (r *MuscleRepository) GetByID(ctx context.Context, id domain.MuscleID) (*domain.Muscle, error) {
	return readThrough(ctx, r.cache, muscleKeyPrefix+id.String(), func() (*domain.Muscle, error) {
		return r.MuscleRepository.GetByID(ctx, id)
	})
}

func (r *MuscleRepository) Update(ctx context.Context, muscle *domain.Muscle) error {
	if err := r.MuscleRepository.Update(ctx, muscle); err != nil {
		return err
	}
	r.cache.invalidate(ctx, muscleKeyPrefix+muscle.ID.String())
	return nil
}

// Delete pulls the muscle out of its group and of exercises.
func (r *MuscleRepository) Delete(ctx context.Context, id domain.MuscleID) error {
	if err := r.MuscleRepository.Delete(ctx, id); err != nil {
		return err
	}
	r.cache.invalidate(ctx, muscleKeyPrefix+id.String())
	r.cache.invalidatePrefix(ctx, muscleGroupKeyPrefix, exerciseKeyPrefix)
	return nil
}
