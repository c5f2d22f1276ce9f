package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
)

func TestUserService_SaveExercise(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	u, me := env.user(t, "Sam", "Saver", "sam@example.com")
	_, stranger := env.user(t, "Tom", "Stranger", "tom@example.com")
	ex := env.exercise(t, coach, "Squat")

	cmd := SaveExerciseCommand{ExerciseID: ex.ID.String()}

	_, err := env.users.SaveExercise(ctx, stranger, u.ID, cmd)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = env.users.SaveExercise(ctx, me, u.ID, SaveExerciseCommand{ExerciseID: domain.NewID[domain.ExerciseKind]().String()})
	assert.ErrorIs(t, err, domain.ErrExerciseNotFound)

	_, err = env.users.SaveExercise(ctx, me, u.ID, SaveExerciseCommand{ExerciseID: "not-a-uuid"})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	got, err := env.users.SaveExercise(ctx, me, u.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, []domain.ExerciseID{ex.ID}, got.SavedExerciseIDs)

	got, err = env.users.SaveExercise(ctx, me, u.ID, cmd)
	require.NoError(t, err)
	assert.Len(t, got.SavedExerciseIDs, 1, "saving twice keeps one entry")

	got, err = env.users.UnsaveExercise(ctx, me, u.ID, cmd)
	require.NoError(t, err)
	assert.Empty(t, got.SavedExerciseIDs)

	// Removing something that is not saved is a no-op.
	_, err = env.users.UnsaveExercise(ctx, me, u.ID, cmd)
	require.NoError(t, err)
}

func TestUserService_SaveMuscleGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	u, me := env.user(t, "Sam", "Saver", "sam@example.com")

	legs, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Legs"})
	require.NoError(t, err)
	back, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Back"})
	require.NoError(t, err)

	_, err = env.users.SaveMuscleGroups(ctx, me, u.ID, SaveMuscleGroupsCommand{
		MuscleGroupIDs: []string{legs.ID.String(), legs.ID.String()},
	})
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Contains(t, derr.Fields, "muscleGroupIds")

	_, err = env.users.SaveMuscleGroups(ctx, me, u.ID, SaveMuscleGroupsCommand{
		MuscleGroupIDs: []string{legs.ID.String(), domain.NewID[domain.MuscleGroupKind]().String()},
	})
	assert.ErrorIs(t, err, domain.ErrMuscleGroupNotFound)

	got, err := env.users.SaveMuscleGroups(ctx, me, u.ID, SaveMuscleGroupsCommand{
		MuscleGroupIDs: []string{legs.ID.String(), back.ID.String()},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.MuscleGroupID{legs.ID, back.ID}, got.SavedMuscleGroupIDs)

	page, err := env.users.SavedMuscleGroupPage(ctx, me, u.ID, paging.Query{Sort: paging.SortName, Order: paging.OrderAsc})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Back", page.Items[0].Name)

	got, err = env.users.UnsaveMuscleGroup(ctx, me, u.ID, UnsaveMuscleGroupCommand{MuscleGroupID: back.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, []domain.MuscleGroupID{legs.ID}, got.SavedMuscleGroupIDs)
}

func TestUserService_SavedPages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	u, me := env.user(t, "Sam", "Saver", "sam@example.com")
	_, stranger := env.user(t, "Tom", "Stranger", "tom@example.com")

	group, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Legs"})
	require.NoError(t, err)
	muscle, err := env.muscles.Create(ctx, coach, MuscleCommand{MuscleGroupID: group.ID.String(), Name: "Quadriceps"})
	require.NoError(t, err)
	squat := env.exercise(t, coach, "Squat")
	env.exercise(t, coach, "Lunge")
	w, err := env.workouts.Create(ctx, coach, *coach.CoachID, WorkoutCommand{
		Name:             "Legs",
		WorkoutExercises: []WorkoutExerciseCommand{lineItem(1, squat.ID)},
	})
	require.NoError(t, err)

	_, err = env.users.SaveExercise(ctx, me, u.ID, SaveExerciseCommand{ExerciseID: squat.ID.String()})
	require.NoError(t, err)
	_, err = env.users.SaveMuscle(ctx, me, u.ID, SaveMuscleCommand{MuscleID: muscle.ID.String()})
	require.NoError(t, err)
	_, err = env.users.SaveWorkout(ctx, me, u.ID, SaveWorkoutCommand{WorkoutID: w.ID.String()})
	require.NoError(t, err)

	exercises, err := env.users.SavedExercisePage(ctx, me, u.ID, paging.Query{})
	require.NoError(t, err)
	require.Len(t, exercises.Items, 1)
	assert.Equal(t, squat.ID, exercises.Items[0].ID)

	empty, err := env.users.SavedExercisePage(ctx, me, u.ID, paging.Query{Search: "lunge"})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)

	muscles, err := env.users.SavedMusclePage(ctx, me, u.ID, paging.Query{})
	require.NoError(t, err)
	assert.Len(t, muscles.Items, 1)

	workouts, err := env.users.SavedWorkoutPage(ctx, me, u.ID, paging.Query{})
	require.NoError(t, err)
	assert.Len(t, workouts.Items, 1)

	_, err = env.users.SavedWorkoutPage(ctx, stranger, u.ID, paging.Query{})
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	_, err = env.users.UnsaveWorkout(ctx, me, u.ID, SaveWorkoutCommand{WorkoutID: w.ID.String()})
	require.NoError(t, err)
	_, err = env.users.UnsaveMuscle(ctx, me, u.ID, SaveMuscleCommand{MuscleID: muscle.ID.String()})
	require.NoError(t, err)
	got, err := env.users.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, got.SavedWorkoutIDs)
	assert.Empty(t, got.SavedMuscleIDs)
}
