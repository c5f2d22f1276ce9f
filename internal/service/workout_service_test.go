package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spartanfitness/api/internal/domain"
	"spartanfitness/api/internal/paging"
)

func TestWorkoutService_CreateDerivesMuscleGroups(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")

	legs, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Legs"})
	require.NoError(t, err)
	back, err := env.muscleGroups.Create(ctx, coach, MuscleGroupCommand{Name: "Back"})
	require.NoError(t, err)

	squat, err := env.exercises.Create(ctx, coach, ExerciseCommand{
		Name: "Squat", Description: "d", Image: "i", Video: "v",
		MuscleGroupIDs: []string{legs.ID.String()},
	})
	require.NoError(t, err)
	deadlift, err := env.exercises.Create(ctx, coach, ExerciseCommand{
		Name: "Deadlift", Description: "d", Image: "i", Video: "v",
		MuscleGroupIDs: []string{back.ID.String(), legs.ID.String()},
	})
	require.NoError(t, err)

	w, err := env.workouts.Create(ctx, coach, *coach.CoachID, WorkoutCommand{
		Name:             "Lower",
		WorkoutExercises: []WorkoutExerciseCommand{lineItem(2, deadlift.ID), lineItem(1, squat.ID)},
	})
	require.NoError(t, err)
	assert.Equal(t, []domain.MuscleGroupID{back.ID, legs.ID}, w.MuscleGroupIDs)
	assert.Equal(t, []domain.ExerciseID{deadlift.ID, squat.ID}, w.ExerciseIDs())
}

func TestWorkoutService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	_, _, other := env.coach(t, "Olga", "Other", "olga@example.com")
	ex := env.exercise(t, coach, "Squat")

	tests := []struct {
		name    string
		caller  Principal
		items   []WorkoutExerciseCommand
		field   string
		wantErr error
	}{
		{
			name:   "order numbers with a gap",
			caller: coach,
			items:  []WorkoutExerciseCommand{lineItem(1, ex.ID), lineItem(3, ex.ID)},
			field:  "workoutExercises",
		},
		{
			name:   "order numbers not starting at one",
			caller: coach,
			items:  []WorkoutExerciseCommand{lineItem(2, ex.ID)},
			field:  "workoutExercises",
		},
		{
			name:   "min reps above max",
			caller: coach,
			items: func() []WorkoutExerciseCommand {
				it := lineItem(1, ex.ID)
				it.MinReps, it.MaxReps = 12, 8
				return []WorkoutExerciseCommand{it}
			}(),
			field: "workoutExercises[0].minReps",
		},
		{
			name:   "too many sets",
			caller: coach,
			items: func() []WorkoutExerciseCommand {
				it := lineItem(1, ex.ID)
				it.Sets = 51
				return []WorkoutExerciseCommand{it}
			}(),
			field: "workoutExercises[0].sets",
		},
		{
			name:   "no items",
			caller: coach,
			items:  nil,
			field:  "workoutExercises",
		},
		{
			name:    "unknown exercise",
			caller:  coach,
			items:   []WorkoutExerciseCommand{lineItem(1, domain.NewID[domain.ExerciseKind]())},
			wantErr: domain.ErrExerciseNotFound,
		},
		{
			name:    "another coach",
			caller:  other,
			items:   []WorkoutExerciseCommand{lineItem(1, ex.ID)},
			wantErr: domain.ErrAccessDenied,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.workouts.Create(ctx, tt.caller, *coach.CoachID, WorkoutCommand{Name: "W", WorkoutExercises: tt.items})
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			var derr *domain.Error
			require.ErrorAs(t, err, &derr)
			assert.Equal(t, domain.KindValidation, derr.Kind)
			assert.Contains(t, derr.Fields, tt.field)
		})
	}
}

func TestWorkoutService_UpdateDeleteAndPaging(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, _, coach := env.coach(t, "Carl", "Coach", "carl@example.com")
	_, _, other := env.coach(t, "Olga", "Other", "olga@example.com")
	admin := env.admin(t)
	ex := env.exercise(t, coach, "Squat")

	w, err := env.workouts.Create(ctx, coach, *coach.CoachID, WorkoutCommand{
		Name:             "Legs",
		WorkoutExercises: []WorkoutExerciseCommand{lineItem(1, ex.ID)},
	})
	require.NoError(t, err)

	_, err = env.workouts.Get(ctx, *other.CoachID, w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound, "workout is looked up under its own coach")

	cmd := WorkoutCommand{Name: "Leg day", WorkoutExercises: []WorkoutExerciseCommand{lineItem(1, ex.ID), lineItem(2, ex.ID)}}
	_, err = env.workouts.Update(ctx, other, *coach.CoachID, w.ID, cmd)
	assert.ErrorIs(t, err, domain.ErrAccessDenied)

	updated, err := env.workouts.Update(ctx, admin, *coach.CoachID, w.ID, cmd)
	require.NoError(t, err)
	assert.Equal(t, "Leg day", updated.Name)
	assert.Len(t, updated.WorkoutExercises, 2)

	page, err := env.workouts.GetCoachPage(ctx, *coach.CoachID, paging.Query{})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	_, err = env.workouts.GetCoachPage(ctx, domain.NewID[domain.CoachKind](), paging.Query{})
	assert.ErrorIs(t, err, domain.ErrCoachNotFound)

	all, err := env.workouts.GetPage(ctx, paging.Query{Search: "leg"})
	require.NoError(t, err)
	assert.Len(t, all.Items, 1)

	require.NoError(t, env.workouts.Delete(ctx, coach, *coach.CoachID, w.ID))
	_, err = env.workouts.Get(ctx, *coach.CoachID, w.ID)
	assert.ErrorIs(t, err, domain.ErrWorkoutNotFound)
}
