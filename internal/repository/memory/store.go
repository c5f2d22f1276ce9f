// Package memory keeps every repository in process memory. It backs local
// development (database.driver: memory) and the service and API tests, and
// mirrors the cascades of the MongoDB implementation.
package memory

import (
	"slices"
	"strings"
	"sync"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
	"spartanfitness/api/internal/repository"
)

// Store holds all collections behind one lock so cascades are atomic.
type Store struct {
	mu           sync.RWMutex
	users        map[domain.UserID]domain.User
	exercises    map[domain.ExerciseID]domain.Exercise
	muscleGroups map[domain.MuscleGroupID]domain.MuscleGroup
	muscles      map[domain.MuscleID]domain.Muscle
	workouts     map[domain.WorkoutID]domain.Workout
	coaches      map[domain.CoachID]domain.Coach
	admins       map[domain.AdministratorID]domain.Administrator
	applications map[domain.CoachApplicationID]domain.CoachApplication
	resetTokens  map[domain.PasswordResetTokenID]domain.PasswordResetToken
	uploads      map[domain.UploadID]domain.Upload
}

func NewStore() *Store {
	return &Store{
		users:        make(map[domain.UserID]domain.User),
		exercises:    make(map[domain.ExerciseID]domain.Exercise),
		muscleGroups: make(map[domain.MuscleGroupID]domain.MuscleGroup),
		muscles:      make(map[domain.MuscleID]domain.Muscle),
		workouts:     make(map[domain.WorkoutID]domain.Workout),
		coaches:      make(map[domain.CoachID]domain.Coach),
		admins:       make(map[domain.AdministratorID]domain.Administrator),
		applications: make(map[domain.CoachApplicationID]domain.CoachApplication),
		resetTokens:  make(map[domain.PasswordResetTokenID]domain.PasswordResetToken),
		uploads:      make(map[domain.UploadID]domain.Upload),
	}
}

func (s *Store) Users() repository.UserRepository               { return &userRepository{s} }
func (s *Store) Exercises() repository.ExerciseRepository       { return &exerciseRepository{s} }
func (s *Store) MuscleGroups() repository.MuscleGroupRepository { return &muscleGroupRepository{s} }
func (s *Store) Muscles() repository.MuscleRepository           { return &muscleRepository{s} }
func (s *Store) Workouts() repository.WorkoutRepository         { return &workoutRepository{s} }
func (s *Store) Coaches() repository.CoachRepository            { return &coachRepository{s} }
func (s *Store) Administrators() repository.AdministratorRepository {
	return &administratorRepository{s}
}
func (s *Store) CoachApplications() repository.CoachApplicationRepository {
	return &coachApplicationRepository{s}
}
func (s *Store) PasswordResetTokens() repository.PasswordResetTokenRepository {
	return &passwordResetTokenRepository{s}
}
func (s *Store) Uploads() repository.UploadRepository { return &uploadRepository{s} }

type searchable interface {
	SortName() string
	Matches(query string) bool
}

// search returns the values matching query ordered by name, like the Mongo repositories.
func search[K comparable, T searchable](m map[K]T, query string, keep func(K, T) bool) []T {
	query = strings.TrimSpace(query)
	out := []T{}
	for k, v := range m {
		if keep != nil && !keep(k, v) {
			continue
		}
		if query != "" && !v.Matches(query) {
			continue
		}
		out = append(out, v)
	}
	slices.SortStableFunc(out, func(a, b T) int { return paging.CompareNames(a.SortName(), b.SortName()) })
	return out
}

func byIDs[K comparable, T searchable](m map[K]T, ids []K, query string) []T {
	set := setOf(ids...)
	return search(m, query, func(k K, _ T) bool {
		_, ok := set[k]
		return ok
	})
}

func without[K comparable](ids []K, drop map[K]struct{}) []K {
	out := make([]K, 0, len(ids))
	for _, id := range ids {
		if _, ok := drop[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func setOf[K comparable](ids ...K) map[K]struct{} {
	out := make(map[K]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

func sameName(a, b string) bool { return strings.EqualFold(a, b) }

// Stored values never share slices with the caller.

func cloneUser(u domain.User) domain.User {
	u.Roles = slices.Clone(u.Roles)
	u.SavedExerciseIDs = slices.Clone(u.SavedExerciseIDs)
	u.SavedMuscleIDs = slices.Clone(u.SavedMuscleIDs)
	u.SavedMuscleGroupIDs = slices.Clone(u.SavedMuscleGroupIDs)
	u.SavedWorkoutIDs = slices.Clone(u.SavedWorkoutIDs)
	return u
}

func cloneExercise(e domain.Exercise) domain.Exercise {
	c := domain.Exercise{
		ID:             e.ID,
		CreatorID:      e.CreatorID,
		Name:           e.Name,
		Description:    e.Description,
		Image:          e.Image,
		Video:          e.Video,
		MuscleIDs:      slices.Clone(e.MuscleIDs),
		MuscleGroupIDs: slices.Clone(e.MuscleGroupIDs),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
	return c
}

func cloneMuscleGroup(g domain.MuscleGroup) domain.MuscleGroup {
	g.MuscleIDs = slices.Clone(g.MuscleIDs)
	return g
}

func cloneWorkout(w domain.Workout) domain.Workout {
	w.MuscleGroupIDs = slices.Clone(w.MuscleGroupIDs)
	w.WorkoutExercises = slices.Clone(w.WorkoutExercises)
	return w
}

func cloneApplication(a domain.CoachApplication) domain.CoachApplication {
	c := domain.CoachApplication{
		ID:        a.ID,
		UserID:    a.UserID,
		Note:      a.Note,
		Status:    a.Status,
		Remarks:   a.Remarks,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.ClosedBy != nil {
		by := *a.ClosedBy
		c.ClosedBy = &by
	}
	return c
}

func cloneAll[T any](items []T, clone func(T) T) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[i] = clone(v)
	}
	return out
}
